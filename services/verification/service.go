// Package verification issues short-lived verification codes to an email
// address.
//
// IssueCode reuses the code already outstanding for an address or mints and
// stores a new one, then mails it. Every outcome, including panics in a
// collaborator, is reported as a Status; nothing is retried.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/codestore"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"github.com/tech-arch1tect/verifycode/services/mail"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultKeyPrefix = "code:"
	DefaultTTL       = 600 * time.Second
	DefaultSubject   = "Verification code"
)

var tracer = otel.Tracer("github.com/tech-arch1tect/verifycode/services/verification")

var (
	errStoreRead  = errors.New("code lookup failed")
	errStoreWrite = errors.New("code write failed")
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) (mail.Receipt, error)
}

type Options struct {
	KeyPrefix string
	TTL       time.Duration
	// IssueMode is config.IssueSetIfAbsent (default) or config.IssueLookupThenSet.
	IssueMode string
	// ReportDeliveryFailure returns StatusDeliveryFailed instead of folding
	// delivery problems into Success/Exception.
	ReportDeliveryFailure bool
	Sender                string
	Subject               string
}

type Service struct {
	opts      Options
	store     codestore.Store
	mailer    Mailer
	generator Generator
	logger    *logging.Service
}

func NewService(opts Options, store codestore.Store, mailer Mailer, generator Generator, logger *logging.Service) *Service {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.IssueMode == "" {
		opts.IssueMode = config.IssueSetIfAbsent
	}
	if opts.Subject == "" {
		opts.Subject = DefaultSubject
	}

	return &Service{
		opts:      opts,
		store:     store,
		mailer:    mailer,
		generator: generator,
		logger:    logger.Named("verification"),
	}
}

// Key is the store key holding the outstanding code for address.
func (s *Service) Key(address string) string {
	return s.opts.KeyPrefix + address
}

func (s *Service) IssueCode(ctx context.Context, address string) (result Result) {
	result = Result{Address: address, Status: StatusException}

	ctx, span := tracer.Start(ctx, "verification.IssueCode",
		trace.WithAttributes(attribute.String("verification.issue_mode", s.opts.IssueMode)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while issuing verification code",
				zap.Any("panic", r),
				zap.Stack("stack"))
			span.SetStatus(codes.Error, fmt.Sprint(r))
			result = Result{Address: address, Status: StatusException}
		}
		span.SetAttributes(attribute.String("verification.status", result.Status.String()))
	}()

	code, reused, err := s.resolveCode(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, errStoreRead) {
			s.logger.Error("verification code lookup failed", zap.String("email", address), zap.Error(err))
			return result
		}
		if errors.Is(err, errStoreWrite) {
			s.logger.Error("failed to store verification code", zap.String("email", address), zap.Error(err))
			result.Status = StatusRedisErr
			return result
		}
		s.logger.Error("failed to mint verification code", zap.String("email", address), zap.Error(err))
		return result
	}
	span.SetAttributes(attribute.Bool("verification.reused", reused))

	result.Status = s.deliver(ctx, span, address, code)
	return result
}

// resolveCode returns the code to deliver and whether it was already stored.
func (s *Service) resolveCode(ctx context.Context, address string) (string, bool, error) {
	key := s.Key(address)

	existing, found, err := s.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", errStoreRead, err)
	}
	if found {
		s.logger.Debug("reusing outstanding verification code",
			zap.String("email", address),
			zap.Int("code_length", len(existing)))
		return existing, true, nil
	}

	candidate, err := s.generator.Generate()
	if err != nil {
		return "", false, fmt.Errorf("generate code: %w", err)
	}

	if s.opts.IssueMode == config.IssueLookupThenSet {
		if err := s.store.SetWithExpire(ctx, key, candidate, s.opts.TTL); err != nil {
			return "", false, fmt.Errorf("%w: %w", errStoreWrite, err)
		}
		s.logger.Debug("stored new verification code",
			zap.String("email", address),
			zap.Int("code_length", len(candidate)),
			zap.Duration("ttl", s.opts.TTL))
		return candidate, false, nil
	}

	stored, created, err := s.store.SetIfAbsent(ctx, key, candidate, s.opts.TTL)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", errStoreWrite, err)
	}
	if !created {
		s.logger.Debug("concurrent request stored a code first, reusing it",
			zap.String("email", address))
		return stored, true, nil
	}

	s.logger.Debug("stored new verification code",
		zap.String("email", address),
		zap.Int("code_length", len(stored)),
		zap.Duration("ttl", s.opts.TTL))
	return stored, false, nil
}

func (s *Service) deliver(ctx context.Context, span trace.Span, address, code string) Status {
	body, err := renderBody(code)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("failed to render verification email", zap.Error(err))
		return StatusException
	}

	receipt, err := s.mailer.Send(ctx, s.opts.Sender, address, s.opts.Subject, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("failed to send verification email", zap.String("email", address), zap.Error(err))
		if s.opts.ReportDeliveryFailure {
			return StatusDeliveryFailed
		}
		return StatusException
	}

	span.SetAttributes(attribute.Bool("verification.delivered", receipt.Accepted))
	if !receipt.Accepted {
		fields := []zap.Field{
			zap.String("email", address),
			zap.Strings("rejected", receipt.Rejected),
			zap.String("detail", receipt.Detail),
		}
		if s.opts.ReportDeliveryFailure {
			s.logger.Warn("verification email was not accepted", fields...)
			return StatusDeliveryFailed
		}
		// a refused recipient is a failed send, same as a transport fault
		if len(receipt.Rejected) > 0 {
			span.SetStatus(codes.Error, "recipient rejected")
			s.logger.Error("verification email was rejected", fields...)
			return StatusException
		}
		s.logger.Warn("verification email was not accepted", fields...)
		return StatusSuccess
	}

	s.logger.Info("verification code sent", zap.String("email", address))
	return StatusSuccess
}
