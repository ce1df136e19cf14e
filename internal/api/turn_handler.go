package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingua-bot/internal/api/shared"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
)

// TurnHandler serves the game endpoint.
type TurnHandler struct {
	game   learning_game.Service
	logger *slog.Logger
}

// NewTurnHandler creates a TurnHandler.
func NewTurnHandler(game learning_game.Service, logger *slog.Logger) *TurnHandler {
	if game == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("game service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TurnHandler{game: game, logger: logger.With(slog.String("component", "turn_handler"))}
}

// HandleTurn handles POST /api/turns.
func (h *TurnHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req TurnRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.SessionID != chatID {
		HandleAPIError(w, r, errForeignSession, "")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("turn received",
		slog.String("session_id", req.SessionID),
		slog.String("event", req.Event.Type))

	payload, err := h.game.HandleTurn(r.Context(), learning_game.TurnRequest{
		SessionID: req.SessionID,
		UserID:    userID,
		Event:     req.event(),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process the turn")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTurnResponse(payload))
}
