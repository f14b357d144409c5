package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/errors"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/session"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/utils/response"
)

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// requireSession reads the cart session attached by session.Middleware. A
// missing session means the route was mounted without it.
func requireSession(w http.ResponseWriter, r *http.Request) (session.Context, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Error("Request reached a storefront handler without a session")
		response.Error(w, errors.InternalError("Session unavailable"))

		return session.Context{}, false
	}

	return s, true
}

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// GetSession godoc
//
//	@Summary		Get the cart session
//	@Description	Returns the session id the cart is keyed by. A new id is issued when the request carries none or a malformed one.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Router			/session [get]
func (h *SessionHandler) GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, SessionResponse{SessionID: s.ID})
	}
}
