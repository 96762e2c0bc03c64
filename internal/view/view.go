// Package view renders the HTML profile card and its live follow controls.
//
//go:generate templ generate
package view

import "github.com/msomdec/usergraph/internal/domain"

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// Element ids patched over SSE.
const (
	FollowButtonID  = "follow-button"
	FollowerCountID = "follower-count"
)

// Profile is everything the profile card shows.
type Profile struct {
	User      *domain.User
	Followers int
	Following int
	// Viewer state. SignedIn is false for anonymous visitors, who get no
	// follow control.
	SignedIn    bool
	IsSelf      bool
	IsFollowing bool
}

// followAction is the datastar expression posting to the follow or unfollow
// endpoint. Backticks survive attribute escaping unchanged.
func followAction(username string, following bool) string {
	action := "follow"
	if following {
		action = "unfollow"
	}
	return "@post(`/u/" + username + "/" + action + "`)"
}

func followLabel(following bool) string {
	if following {
		return "Unfollow"
	}
	return "Follow"
}

func followerNoun(n int) string {
	if n == 1 {
		return "follower"
	}
	return "followers"
}
