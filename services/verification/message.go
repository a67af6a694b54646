package verification

import (
	"bytes"
	"text/template"
)

var bodyTemplate = template.Must(template.New("verification_body").Parse(
	`Your verification code is {{.Code}}.

Enter it to complete your registration. The code is valid for the next few minutes.
If you did not request this code you can ignore this message.
`))

type messageData struct {
	Code string
}

func renderBody(code string) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, messageData{Code: code}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
