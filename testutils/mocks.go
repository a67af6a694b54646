package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tech-arch1tect/verifycode/services/mail"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, from, to, subject, body string) (mail.Receipt, error) {
	args := m.Called(ctx, from, to, subject, body)
	return args.Get(0).(mail.Receipt), args.Error(1)
}

// Accepted is the receipt of a message the server took for delivery.
var Accepted = mail.Receipt{Accepted: true}
