package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/usergraph/internal/authz"
	"github.com/msomdec/usergraph/internal/domain"
	"github.com/msomdec/usergraph/internal/service"
	"github.com/msomdec/usergraph/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// ProfileHandler renders the public profile card and its follow toggle.
type ProfileHandler struct {
	social *service.SocialService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(social *service.SocialService) *ProfileHandler {
	return &ProfileHandler{social: social}
}

// HandleProfile renders the profile page for {username}.
// GET /u/{username}
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.social.GetUserByUsername(ctx, r.PathValue("username"))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.NotFound(w, r)
		return
	}

	followers, err := h.social.ListFollowers(ctx, user.ID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	following, err := h.social.ListFollowing(ctx, user.ID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	isFollowing, err := h.social.IsFollowing(ctx, user.ID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	callerID, signedIn := authz.CallerFromContext(ctx)
	view.ProfilePage(view.Profile{
		User:        user,
		Followers:   len(followers),
		Following:   len(following),
		SignedIn:    signedIn,
		IsSelf:      callerID == user.ID,
		IsFollowing: isFollowing,
	}).Render(ctx, w)
}

// HandleFollow follows {username} and patches the toggle and follower count.
// POST /u/{username}/follow
func (h *ProfileHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// HandleUnfollow unfollows {username} and patches the toggle and follower count.
// POST /u/{username}/unfollow
func (h *ProfileHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *ProfileHandler) toggle(w http.ResponseWriter, r *http.Request, follow bool) {
	ctx := r.Context()
	username := r.PathValue("username")

	var (
		result *domain.FollowResult
		err    error
	)
	if follow {
		result, err = h.social.Follow(ctx, username)
	} else {
		result, err = h.social.Unfollow(ctx, username)
	}

	sse := datastar.NewSSE(w, r)
	if err != nil {
		message := err.Error()
		if !domain.IsDomainError(err) {
			message = domain.ErrInternal.Error()
		}
		sse.PatchElementTempl(view.FollowError(message))
		return
	}

	followers, err := h.social.ListFollowers(ctx, result.User.ID)
	if err != nil {
		slog.ErrorContext(ctx, "count followers", "error", err)
		sse.PatchElementTempl(view.FollowError(domain.ErrInternal.Error()))
		return
	}

	sse.PatchElementTempl(view.FollowButton(result.User.Username, follow))
	sse.PatchElementTempl(view.FollowerCount(len(followers)))
}
