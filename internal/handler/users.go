package handler

import (
	"net/http"
	"strconv"

	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/service"
)

// UserHandler serves user lookups, the caller's own profile and the
// follow-graph projections.
type UserHandler struct {
	social *service.SocialService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(social *service.SocialService) *UserHandler {
	return &UserHandler{social: social}
}

// HandleMe returns the caller's profile.
// GET /api/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.social.GetCurrentProfile(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleUpdateMe applies a partial profile update. Omitted or null fields
// are left alone; an empty imageUrl removes the image.
// PATCH /api/me
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		ImageURL  *string `json:"imageUrl"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	user, err := h.social.UpdateProfile(r.Context(), domain.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleAvatarUpload presigns a direct upload of the caller's profile image.
// POST /api/me/avatar
// Request:  {"contentType":"image/png"}
func (h *UserHandler) HandleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentType string `json:"contentType"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	upload, err := h.social.PresignAvatarUpload(r.Context(), req.ContentType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"upload": toAvatarUploadDTO(upload)})
}

// HandleList lists every user, or searches by username prefix when q is set.
// GET /api/users?q=al&limit=10
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		users []domain.User
		err   error
	)
	if prefix := q.Get("q"); prefix != "" {
		limit := 0
		if raw := q.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, domain.CodeBadUserInput, "limit must be a number.")
				return
			}
		}
		users, err = h.social.SearchUsers(r.Context(), prefix, limit)
	} else {
		users, err = h.social.ListUsers(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleGetByUsername returns one user, plus whether the caller follows them.
// GET /api/users/{username}
func (h *UserHandler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.social.GetUserByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user == nil {
		writeDomainError(w, domain.ErrUserNotFound)
		return
	}

	following, err := h.social.IsFollowing(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":        toUserDTO(user),
		"isFollowing": following,
	})
}

// HandleGetByID returns one user by id.
// GET /api/users/id/{id}
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.social.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user == nil {
		writeDomainError(w, domain.ErrUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleFollowing lists the users {id} follows.
// GET /api/users/id/{id}/following
func (h *UserHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	users, err := h.social.ListFollowing(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleFollowers lists the users following {id}.
// GET /api/users/id/{id}/followers
func (h *UserHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	users, err := h.social.ListFollowers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleFollowingIDs lists the ids of the users {id} follows.
// GET /api/users/id/{id}/following-ids
func (h *UserHandler) HandleFollowingIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.social.ListFollowingIDs(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

// HandleIsFollowing reports whether the caller follows {id}. Anonymous
// callers always get false.
// GET /api/users/id/{id}/is-following
func (h *UserHandler) HandleIsFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := h.social.IsFollowing(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isFollowing": following})
}
