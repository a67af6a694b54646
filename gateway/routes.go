package gateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/middleware/ratelimit"
	"github.com/tech-arch1tect/verifycode/openapi"
	"github.com/tech-arch1tect/verifycode/server"
)

const (
	PathGetVerifyCode = "/get_varifycode"
	PathHealth        = "/healthz"
)

func NewDocument(cfg *config.Config) *openapi.OpenAPI {
	doc := openapi.New(cfg.App.Name, cfg.App.Version).
		Description("Issues short-lived email verification codes.").
		Tag("verification", "Verification code issuance")

	doc.Document(http.MethodPost, PathGetVerifyCode).
		Summary("Send a verification code").
		Description("Reuses the outstanding code for the address or mints a new one, then emails it.").
		OperationID("getVerifyCode").
		Tags("verification").
		Body(CodeRequest{}, "Address to verify").
		Response(http.StatusOK, CodeResponse{}, "Outcome, see the error field").
		Build()

	doc.Document(http.MethodGet, PathHealth).
		Summary("Liveness probe").
		OperationID("health").
		Response(http.StatusOK, HealthResponse{}, "Gateway is up").
		Build()

	return doc
}

func RegisterRoutes(srv *server.Server, h *Handler, doc *openapi.OpenAPI, cfg *config.Config) {
	var limits []echo.MiddlewareFunc
	if cfg.Gateway.RateLimit > 0 {
		limits = append(limits, ratelimit.Middleware(&ratelimit.Config{
			Rate:   cfg.Gateway.RateLimit,
			Period: cfg.Gateway.RatePeriod,
		}))
	}

	srv.Post(PathGetVerifyCode, h.GetVerifyCode, limits...)
	srv.Get(PathHealth, h.Health)

	if cfg.Gateway.OpenAPI {
		srv.Get("/openapi.json", doc.JSONHandler())
		srv.Get("/openapi.yaml", doc.YAMLHandler())
	}
}
