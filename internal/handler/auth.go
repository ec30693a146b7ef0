package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/piadas/piadas/internal/handler/dto"
	"github.com/piadas/piadas/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /registrar.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	if missing := req.Missing(); len(missing) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, dto.MissingFieldsDetail(missing))
		return
	}

	token, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     *req.Nome,
		Email:    *req.Email,
		Password: *req.Senha,
	})
	if err != nil {
		h.handleServiceError(w, "register", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{JWT: token})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if missing := req.Missing(); len(missing) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, dto.MissingFieldsDetail(missing))
		return
	}

	token, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    *req.Email,
		Password: *req.Senha,
	})
	if err != nil {
		h.handleServiceError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{JWT: token})
}

// decode reads a JSON body into dst, writing the error response on failure.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		// Exactly one JSON value is allowed.
		if err = dec.Decode(&struct{}{}); errors.Is(err, io.EOF) {
			return true
		}
		if err == nil {
			err = errors.New("unexpected data after JSON body")
		}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeDetail(w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
		return false
	}
	writeDetail(w, http.StatusUnprocessableEntity, MsgInvalidBody)
	return false
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateUser):
		h.logger.Info(op+"_rejected", slog.String("reason", "duplicate_email"))
		writeDetail(w, http.StatusConflict, MsgDuplicateEmail)
	case errors.Is(err, service.ErrUserNotFound):
		h.logger.Info(op+"_rejected", slog.String("reason", "email_not_found"))
		writeDetail(w, http.StatusUnauthorized, MsgEmailNotFound)
	case errors.Is(err, service.ErrInvalidPassword):
		h.logger.Info(op+"_rejected", slog.String("reason", "password_mismatch"))
		writeDetail(w, http.StatusUnauthorized, MsgPasswordMismatch)
	default:
		h.logger.Error("internal_error",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		writeDetail(w, http.StatusInternalServerError, MsgInternalError)
	}
}
