// Package gateway exposes verification-code issuance over HTTP for clients
// that do not speak gRPC.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/internal/validate"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"github.com/tech-arch1tect/verifycode/services/verification"
	"go.uber.org/zap"
)

// Gateway error codes share the "error" field with verification statuses and
// start at 1001 so the two ranges never overlap.
const (
	ErrorJSON    = 1001
	RPCFailed    = 1002
	EmailInvalid = 1009
)

// Issuer is whatever issues codes for the gateway: the in-process coordinator
// or a remote verify service. An error means the call never reached the
// coordinator; coordinator outcomes are carried in the Result.
type Issuer interface {
	GetVerifyCode(ctx context.Context, email string) (verification.Result, error)
}

type LocalIssuer struct {
	service *verification.Service
}

func NewLocalIssuer(service *verification.Service) *LocalIssuer {
	return &LocalIssuer{service: service}
}

func (l *LocalIssuer) GetVerifyCode(ctx context.Context, email string) (verification.Result, error) {
	return l.service.IssueCode(ctx, email), nil
}

type CodeRequest struct {
	Email string `json:"email" validate:"required,email" doc:"address the code is sent to" example:"a@b.com"`
}

type CodeResponse struct {
	Error int    `json:"error" doc:"0 success, 1 store error, 2 exception, 3 delivery failed, 1001 bad json, 1002 upstream unreachable, 1009 invalid email"`
	Email string `json:"email" doc:"the requested address, echoed verbatim"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type Handler struct {
	issuer      Issuer
	strictEmail bool
	logger      *logging.Service
}

func NewHandler(issuer Issuer, cfg *config.Config, logger *logging.Service) *Handler {
	return &Handler{
		issuer:      issuer,
		strictEmail: cfg.Gateway.StrictEmail,
		logger:      logger.Named("gateway"),
	}
}

// GetVerifyCode always answers 200; failures are reported in the error field.
func (h *Handler) GetVerifyCode(c echo.Context) error {
	var req CodeRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		return c.JSON(http.StatusOK, CodeResponse{Error: ErrorJSON, Email: req.Email})
	}

	if h.strictEmail {
		if err := validate.Struct(&req); err != nil {
			h.logger.Debug("rejected email address", zap.String("email", req.Email), zap.Error(err))
			return c.JSON(http.StatusOK, CodeResponse{Error: EmailInvalid, Email: req.Email})
		}
	}

	result, err := h.issuer.GetVerifyCode(c.Request().Context(), req.Email)
	if err != nil {
		h.logger.Error("verify service call failed", zap.String("email", req.Email), zap.Error(err))
		return c.JSON(http.StatusOK, CodeResponse{Error: RPCFailed, Email: req.Email})
	}

	return c.JSON(http.StatusOK, CodeResponse{Error: int(result.Status), Email: result.Address})
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
