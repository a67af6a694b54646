package config

import (
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	ModeAll     = "all"
	ModeVerify  = "verify"
	ModeGateway = "gateway"
)

const (
	StoreRedis  = "redis"
	StoreSQL    = "sql"
	StoreMemory = "memory"
)

const (
	IssueSetIfAbsent   = "set_if_absent"
	IssueLookupThenSet = "lookup_then_set"
)

const (
	GeneratorRandom = "random"
	GeneratorUUID   = "uuid"
)

type Config struct {
	App          AppConfig          `envPrefix:"APP_"`
	Server       ServerConfig       `envPrefix:"SERVER_"`
	GRPC         GRPCConfig         `envPrefix:"GRPC_"`
	Log          LogConfig          `envPrefix:"LOG_"`
	Redis        RedisConfig        `envPrefix:"REDIS_"`
	Database     DatabaseConfig     `envPrefix:"DATABASE_"`
	Mail         MailConfig         `envPrefix:"MAIL_"`
	Verification VerificationConfig `envPrefix:"VERIFY_"`
	Gateway      GatewayConfig      `envPrefix:"GATEWAY_"`
	Telemetry    TelemetryConfig    `envPrefix:"OTEL_"`
}

type AppConfig struct {
	Name    string `env:"NAME" envDefault:"verifycode"`
	Mode    string `env:"MODE" envDefault:"all"`
	Version string `env:"VERSION" envDefault:"dev"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type GRPCConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"50051"`

	// Target is the upstream dialled by the gateway when it runs on its own.
	Target  string        `env:"TARGET" envDefault:"localhost:50051"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type RedisConfig struct {
	Addrs    []string `env:"ADDRS" envSeparator:"," envDefault:"localhost:6379"`
	Password string   `env:"PASSWORD"`
	DB       int      `env:"DB" envDefault:"0"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"verifycode.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type MailConfig struct {
	Driver      string `env:"DRIVER" envDefault:"smtp"`
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        int    `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	Encryption  string `env:"ENCRYPTION" envDefault:"tls"`
	FromAddress string `env:"FROM_ADDRESS" envDefault:"no-reply@localhost"`
	FromName    string `env:"FROM_NAME"`
}

type VerificationConfig struct {
	Store                 string        `env:"STORE" envDefault:"redis"`
	KeyPrefix             string        `env:"KEY_PREFIX" envDefault:"code:"`
	TTL                   time.Duration `env:"TTL" envDefault:"10m"`
	CodeLength            int           `env:"CODE_LENGTH" envDefault:"4"`
	Alphabet              string        `env:"ALPHABET" envDefault:"0123456789abcdef"`
	Generator             string        `env:"GENERATOR" envDefault:"random"`
	IssueMode             string        `env:"ISSUE_MODE" envDefault:"set_if_absent"`
	ReportDeliveryFailure bool          `env:"REPORT_DELIVERY_FAILURE" envDefault:"false"`
	Subject               string        `env:"SUBJECT" envDefault:"Verification code"`
}

type GatewayConfig struct {
	StrictEmail bool `env:"STRICT_EMAIL" envDefault:"false"`
	OpenAPI     bool `env:"OPENAPI" envDefault:"true"`

	// RateLimit caps requests per client IP per RatePeriod; 0 disables it.
	RateLimit  int           `env:"RATE_LIMIT" envDefault:"0"`
	RatePeriod time.Duration `env:"RATE_PERIOD" envDefault:"1m"`
}

type TelemetryConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	Endpoint string `env:"ENDPOINT"`
}

func LoadConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.App.Mode {
	case ModeAll, ModeVerify, ModeGateway:
	default:
		return fmt.Errorf("unsupported app mode: %s (supported: all, verify, gateway)", c.App.Mode)
	}

	v := c.Verification
	switch v.Store {
	case StoreRedis, StoreSQL, StoreMemory:
	default:
		return fmt.Errorf("unsupported verification store: %s (supported: redis, sql, memory)", v.Store)
	}
	switch v.IssueMode {
	case IssueSetIfAbsent, IssueLookupThenSet:
	default:
		return fmt.Errorf("unsupported issue mode: %s", v.IssueMode)
	}
	switch v.Generator {
	case GeneratorRandom, GeneratorUUID:
	default:
		return fmt.Errorf("unsupported code generator: %s", v.Generator)
	}
	if v.TTL < time.Millisecond {
		return fmt.Errorf("verification TTL must be at least 1ms, got %s", v.TTL)
	}
	if v.CodeLength <= 0 {
		return fmt.Errorf("verification code length must be positive, got %d", v.CodeLength)
	}
	if v.Generator == GeneratorRandom && utf8.RuneCountInString(v.Alphabet) < 2 {
		return fmt.Errorf("verification alphabet needs at least 2 symbols")
	}
	if v.Generator == GeneratorUUID && v.CodeLength > 36 {
		return fmt.Errorf("uuid generator supports at most 36 characters, got %d", v.CodeLength)
	}
	if c.Gateway.RateLimit < 0 {
		return fmt.Errorf("gateway rate limit cannot be negative, got %d", c.Gateway.RateLimit)
	}
	if c.Gateway.RateLimit > 0 && c.Gateway.RatePeriod <= 0 {
		return fmt.Errorf("gateway rate period must be positive, got %s", c.Gateway.RatePeriod)
	}

	return nil
}
