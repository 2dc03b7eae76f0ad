// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/newsbridge/internal/platform/middleware"
	requestutil "github.com/taibuivan/newsbridge/internal/platform/request"
	"github.com/taibuivan/newsbridge/internal/platform/respond"
)

// Handler implements the operator authentication endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /token : Exchanges the operator key for an access token.
//   - GET  /me    : Returns the claims of the presented token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/token", handler.issueToken)
	router.With(middleware.RequireAuth).Get("/me", handler.me)

	return router
}

// tokenRequest represents the JSON payload expected for the key exchange.
type tokenRequest struct {
	Key string `json:"key"`
}

// issueToken handles POST /api/v1/auth/token requests.
//
// # Returns
//   - Writes HTTP 200 OK with the access token.
//   - Writes HTTP 400 Bad Request for a malformed body.
//   - Writes HTTP 401 Unauthorized for a wrong key.
func (handler *Handler) issueToken(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.IssueToken(request.Context(), input.Key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// me handles GET /api/v1/auth/me requests.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"subject":    claims.Subject,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt.Time,
	})
}
