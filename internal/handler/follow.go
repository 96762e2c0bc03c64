package handler

import (
	"net/http"

	"github.com/msomdec/usergraph/internal/service"
)

// FollowHandler exposes follow and unfollow over JSON.
type FollowHandler struct {
	social *service.SocialService
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(social *service.SocialService) *FollowHandler {
	return &FollowHandler{social: social}
}

// HandleFollow makes the caller follow {username}.
// POST /api/follows/{username}
// Response: 201 {"follow": {...}}
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	result, err := h.social.Follow(r.Context(), r.PathValue("username"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"follow": toFollowDTO(result)})
}

// HandleUnfollow removes the caller's edge to {username} and returns it.
// DELETE /api/follows/{username}
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	result, err := h.social.Unfollow(r.Context(), r.PathValue("username"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"follow": toFollowDTO(result)})
}
