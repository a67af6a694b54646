package logging

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mileusna/useragent"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request. Paths in skipPaths (health probes,
// docs) are not logged.
func RequestLogger(logger *Service, skipPaths ...string) echo.MiddlewareFunc {
	skipMap := make(map[string]bool, len(skipPaths))
	for _, path := range skipPaths {
		skipMap[path] = true
	}

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		Skipper: func(c echo.Context) bool {
			return skipMap[c.Request().URL.Path]
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			fields = append(fields, userAgentFields(v.UserAgent)...)

			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}

			switch {
			case v.Status >= 500:
				logger.Error("server error", fields...)
			case v.Status >= 400:
				logger.Warn("client error", fields...)
			default:
				logger.Info("request", fields...)
			}

			return nil
		},
	})
}

func userAgentFields(raw string) []zap.Field {
	if raw == "" {
		return []zap.Field{zap.String("user_agent", "")}
	}

	ua := useragent.Parse(raw)

	client := ua.Name
	if client != "" && ua.Version != "" {
		client += " " + ua.Version
	}

	return []zap.Field{
		zap.String("user_agent", raw),
		zap.String("ua_client", client),
		zap.String("ua_os", ua.OS),
		zap.Bool("ua_bot", ua.Bot),
	}
}
