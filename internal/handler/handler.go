// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/piadas/piadas/internal/handler/dto"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

// Response messages.
const (
	MsgDuplicateEmail   = "O email já está cadastrado"
	MsgEmailNotFound    = "Email não encontrado"
	MsgPasswordMismatch = "Senha e Email não conferem"
	MsgInvalidBody      = "Corpo da requisição inválido"
	MsgInternalError    = "Erro interno"
	MsgJokeUnavailable  = "Serviço de piadas indisponível"
	MsgNotFound         = "Recurso não encontrado"
	MsgMethodNotAllowed = "Método não permitido"
)

// Handler serves the root and fallback routes.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello identifies the service.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Piadas API",
		"version": Version,
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, MsgNotFound)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("write response failed", slog.String("error", err.Error()))
	}
}

// writeDetail writes an error body.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, dto.ErrorResponse{Detail: detail})
}
