package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var (
	ErrMailUnavailable = errors.New("mail transport unavailable")
	ErrInvalidSender   = errors.New("invalid sender address")
)

// Receipt reports what the transport did with a message. A message the server
// refused for a recipient is a Receipt with Accepted=false, not an error; errors
// are reserved for transport faults.
type Receipt struct {
	Accepted bool
	Rejected []string
	Detail   string
	Duration time.Duration
}

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Service struct {
	config *config.MailConfig
	client mailClient
	logger *logging.Service
}

func NewService(cfg *config.MailConfig, logger *logging.Service) (*Service, error) {
	logger.Info("initializing mail service",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("encryption", cfg.Encryption),
		zap.String("from_address", cfg.FromAddress))

	if cfg.Driver == "log" {
		return NewServiceWithClient(cfg, logger, &logClient{logger: logger})
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	switch cfg.Encryption {
	case "tls", "starttls":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	case "ssl":
		clientOpts = append(clientOpts, mail.WithSSL())
	case "none":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		logger.Error("failed to create mail client",
			zap.Error(err),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port))
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return NewServiceWithClient(cfg, logger, client)
}

func NewServiceWithClient(cfg *config.MailConfig, logger *logging.Service, client mailClient) (*Service, error) {
	if cfg.FromAddress == "" {
		logger.Error("mail service initialization failed: FROM_ADDRESS is required")
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	return &Service{
		config: cfg,
		client: client,
		logger: logger.Named("mail"),
	}, nil
}

// DefaultSender is the configured From header, with display name when set.
func (s *Service) DefaultSender() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}
	return s.config.FromAddress
}

// Send delivers one plain-text message. An empty from uses DefaultSender.
func (s *Service) Send(ctx context.Context, from, to, subject, body string) (Receipt, error) {
	if from == "" {
		from = s.DefaultSender()
	}

	message := mail.NewMsg()
	if err := message.From(from); err != nil {
		s.logger.Error("failed to set FROM address", zap.Error(err), zap.String("from", from))
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidSender, err)
	}

	if err := message.To(to); err != nil {
		s.logger.Warn("recipient address rejected before send",
			zap.Error(err),
			zap.String("recipient", to))
		return Receipt{Accepted: false, Rejected: []string{to}, Detail: err.Error()}, nil
	}

	message.Subject(subject)
	message.SetBodyString(mail.TypeTextPlain, body)

	startTime := time.Now()
	err := s.client.DialAndSendWithContext(ctx, message)
	duration := time.Since(startTime)

	if err != nil {
		var sendErr *mail.SendError
		if errors.As(err, &sendErr) && sendErr.Reason == mail.ErrSMTPRcptTo {
			s.logger.Warn("recipient refused by mail server",
				zap.Error(err),
				zap.String("recipient", to),
				zap.Bool("temporary", sendErr.IsTemp()),
				zap.Duration("attempt_duration", duration))
			return Receipt{Accepted: false, Rejected: []string{to}, Detail: err.Error(), Duration: duration}, nil
		}

		s.logger.Error("failed to send email",
			zap.Error(err),
			zap.String("recipient", to),
			zap.Duration("attempt_duration", duration))
		return Receipt{Duration: duration}, fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}

	s.logger.Info("email sent successfully",
		zap.String("recipient", to),
		zap.String("subject", subject),
		zap.Duration("send_duration", duration))

	return Receipt{Accepted: true, Duration: duration}, nil
}

// logClient stands in for SMTP in local development; messages are logged, never sent.
type logClient struct {
	logger *logging.Service
}

func (c *logClient) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	for _, message := range messages {
		recipients, err := message.GetRecipients()
		if err != nil {
			return err
		}
		c.logger.Info("mail driver is log, message not sent",
			zap.Strings("recipients", recipients),
			zap.Strings("subject", message.GetGenHeader(mail.HeaderSubject)))
	}
	return nil
}
