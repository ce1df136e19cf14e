package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingua-bot/internal/api/shared"
	"github.com/phrazzld/lingua-bot/internal/service/listen"
)

// ListenHandler serves pronunciation clips.
type ListenHandler struct {
	listen listen.Service
	logger *slog.Logger
}

// NewListenHandler creates a ListenHandler.
func NewListenHandler(svc listen.Service, logger *slog.Logger) *ListenHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("listen service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListenHandler{listen: svc, logger: logger.With(slog.String("component", "listen_handler"))}
}

// ListenWord handles GET /api/words/{id}/listen.
func (h *ListenHandler) ListenWord(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := identityFromRequest(w, r); !ok {
		return
	}
	wordID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	clip, err := h.listen.ListenWord(r.Context(), wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render audio")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListenResponse(clip))
}

// ListenWords handles POST /api/listen.
func (h *ListenHandler) ListenWords(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req ListenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	clip, err := h.listen.ListenWords(r.Context(), userID, req.GroupID, req.WordIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render audio")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListenResponse(clip))
}
