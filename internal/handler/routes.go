package handler

import (
	"net/http"

	"github.com/msomdec/usergraph/internal/service"
)

// Deps bundles what the routes need.
type Deps struct {
	Social        *service.SocialService
	Authenticator *Authenticator
	LoginLimiter  *service.TokenBucket
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authH := NewAuthHandler(d.Social, d.LoginLimiter)
	userH := NewUserHandler(d.Social)
	followH := NewFollowHandler(d.Social)
	profileH := NewProfileHandler(d.Social)

	required := func(h http.HandlerFunc) http.Handler { return RequireAuth(d.Authenticator, h) }
	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(d.Authenticator, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/users", authH.HandleCreateAccount)
	mux.HandleFunc("POST /api/auth/login", authH.HandleLogin)

	mux.Handle("GET /api/me", required(userH.HandleMe))
	mux.Handle("PATCH /api/me", required(userH.HandleUpdateMe))
	mux.Handle("POST /api/me/avatar", required(userH.HandleAvatarUpload))

	mux.HandleFunc("GET /api/users", userH.HandleList)
	mux.Handle("GET /api/users/{username}", optional(userH.HandleGetByUsername))
	mux.HandleFunc("GET /api/users/id/{id}", userH.HandleGetByID)
	mux.HandleFunc("GET /api/users/id/{id}/following", userH.HandleFollowing)
	mux.HandleFunc("GET /api/users/id/{id}/followers", userH.HandleFollowers)
	mux.HandleFunc("GET /api/users/id/{id}/following-ids", userH.HandleFollowingIDs)
	mux.Handle("GET /api/users/id/{id}/is-following", optional(userH.HandleIsFollowing))

	mux.Handle("POST /api/follows/{username}", required(followH.HandleFollow))
	mux.Handle("DELETE /api/follows/{username}", required(followH.HandleUnfollow))

	mux.Handle("GET /u/{username}", optional(profileH.HandleProfile))
	mux.Handle("POST /u/{username}/follow", required(profileH.HandleFollow))
	mux.Handle("POST /u/{username}/unfollow", required(profileH.HandleUnfollow))
}
