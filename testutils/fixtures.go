package testutils

import (
	"time"

	"github.com/tech-arch1tect/verifycode/config"
)

const TestAddress = "a@b.com"

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:    "verifycode-test",
			Mode:    config.ModeAll,
			Version: "test",
		},
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: "0",
		},
		GRPC: config.GRPCConfig{
			Host:   "127.0.0.1",
			Port:   0,
			Target: "passthrough:///bufnet",
		},
		Log: config.LogConfig{
			Level:  "debug",
			Format: "console",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Mail: config.MailConfig{
			Driver:      "log",
			Host:        "localhost",
			Port:        1025,
			Encryption:  "none",
			FromAddress: "no-reply@example.com",
			FromName:    "Verify",
		},
		Verification: config.VerificationConfig{
			Store:      config.StoreMemory,
			KeyPrefix:  "code:",
			TTL:        600 * time.Second,
			CodeLength: 4,
			Alphabet:   "0123456789abcdef",
			Generator:  config.GeneratorRandom,
			IssueMode:  config.IssueSetIfAbsent,
			Subject:    "Verification code",
		},
		Gateway: config.GatewayConfig{
			OpenAPI: true,
		},
	}
}
