package handler

import (
	"log/slog"
	"net/http"

	"github.com/piadas/piadas/internal/auth"
	"github.com/piadas/piadas/internal/handler/dto"
	"github.com/piadas/piadas/internal/service"
)

// JokeHandler serves jokes from the provider.
type JokeHandler struct {
	svc    *service.JokeService
	logger *slog.Logger
}

// NewJokeHandler creates a new JokeHandler.
func NewJokeHandler(svc *service.JokeService, logger *slog.Logger) *JokeHandler {
	return &JokeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Random handles GET /jokes/programming and, behind the auth gate, GET /consultar.
func (h *JokeHandler) Random(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.Random(r.Context())
	if err != nil {
		h.logger.Error("joke_fetch_failed",
			slog.String("subject", auth.SubjectFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		writeDetail(w, http.StatusBadGateway, MsgJokeUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToJokeResponse(j))
}
