package verification

import (
	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/codestore"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"github.com/tech-arch1tect/verifycode/services/mail"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideGenerator(cfg *config.Config) (Generator, error) {
	return NewGenerator(cfg.Verification)
}

func ProvideService(cfg *config.Config, store codestore.Store, mailer *mail.Service, generator Generator, logger *logging.Service) *Service {
	v := cfg.Verification

	logger.Info("initializing verification service",
		zap.String("store", v.Store),
		zap.String("issue_mode", v.IssueMode),
		zap.String("generator", v.Generator),
		zap.Int("code_length", v.CodeLength),
		zap.Duration("ttl", v.TTL),
		zap.Bool("report_delivery_failure", v.ReportDeliveryFailure))

	return NewService(Options{
		KeyPrefix:             v.KeyPrefix,
		TTL:                   v.TTL,
		IssueMode:             v.IssueMode,
		ReportDeliveryFailure: v.ReportDeliveryFailure,
		Sender:                mailer.DefaultSender(),
		Subject:               v.Subject,
	}, store, mailer, generator, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideGenerator),
	fx.Provide(ProvideService),
)
