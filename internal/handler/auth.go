package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/msomdec/usergraph/internal/service"
)

// AuthHandler handles account creation and login.
type AuthHandler struct {
	social  *service.SocialService
	limiter *service.TokenBucket
}

// NewAuthHandler creates a new AuthHandler. limiter may be nil to disable
// login throttling.
func NewAuthHandler(social *service.SocialService, limiter *service.TokenBucket) *AuthHandler {
	return &AuthHandler{social: social, limiter: limiter}
}

// HandleCreateAccount registers a new user.
// POST /api/users
// Request:  {"username":"...","password":"...","firstName":"...","lastName":"...","imageUrl":"..."}
// Response: 201 {"user": {...}}
func (h *AuthHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string  `json:"username"`
		Password  string  `json:"password"`
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
		ImageURL  *string `json:"imageUrl"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	user, err := h.social.CreateAccount(r.Context(), service.CreateAccountInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogin exchanges a username and password for a bearer token.
// Attempts are throttled per username.
// POST /api/auth/login
// Request:  {"username":"...","password":"..."}
// Response: {"token":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	key := service.CanonicalUsername(req.Username)
	if h.limiter != nil && !h.limiter.Allow(key) {
		secs := int(math.Ceil(h.limiter.RetryAfter(key).Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
		writeError(w, http.StatusTooManyRequests, CodeTooManyRequests, "Too many login attempts. Try again later.")
		return
	}

	token, err := h.social.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
