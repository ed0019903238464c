package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/nkiryanov/vollmed/internal/apperrors"
	"github.com/nkiryanov/vollmed/internal/handlers/render"
	"github.com/nkiryanov/vollmed/internal/logger"
	"github.com/nkiryanov/vollmed/internal/metrics"
	"github.com/nkiryanov/vollmed/internal/models"
)

type authService interface {
	// Exchange login and password for bearer token
	// Has to return apperrors.ErrInvalidCredentials for unknown login and wrong password alike
	Login(ctx context.Context, login string, password string) (models.Token, error)
}

type loginObserver interface {
	ObserveLogin(result string)
}

type AuthHandler struct {
	authService authService
	observer    loginObserver
	logger      logger.Logger
}

// observer may be nil
func NewAuth(auth authService, observer loginObserver, l logger.Logger) *AuthHandler {
	return &AuthHandler{authService: auth, observer: observer, logger: l}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", h.login)

	return mux
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Login    string `json:"login" validate:"required,max=255"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		h.observe(metrics.LoginFailed)
		return
	}

	token, err := h.authService.Login(r.Context(), data.Login, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			h.observe(metrics.LoginFailed)
			render.ServiceError(w, "Invalid login or password", http.StatusUnauthorized)
		default:
			h.observe(metrics.LoginError)
			h.logger.Error("login failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.observe(metrics.LoginSucceeded)
	render.Token(w, token)
}

func (h *AuthHandler) observe(result string) {
	if h.observer != nil {
		h.observer.ObserveLogin(result)
	}
}
