package handlers

import (
	"net/http"
	"time"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/security"
	"github.com/username/spendfolio/src/utils"
)

type SessionHandler struct {
	sessions *security.SessionService
}

func NewSessionHandler(sessions *security.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, token, expiresAt, err := h.sessions.NewSession()
	if err != nil {
		logger.L.Error("Failed to issue session token", "error", err)
		utils.SendJSONError(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Session created", "sessionID", sessionID, "remoteAddr", r.RemoteAddr)
	utils.SendJSON(w, sessionResponse{Token: token, SessionID: sessionID, ExpiresAt: expiresAt}, http.StatusCreated)
}
