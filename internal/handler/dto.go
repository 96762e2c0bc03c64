package handler

import (
	"time"

	"github.com/msomdec/usergraph/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash is never
// part of it.
type UserDTO struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	ImageURL  *string `json:"imageUrl"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// FollowDTO is the JSON representation of a follow edge and the followed user.
type FollowDTO struct {
	ID          int64   `json:"id"`
	FollowerID  string  `json:"followerId"`
	FollowingID string  `json:"followingId"`
	CreatedAt   string  `json:"createdAt"`
	User        UserDTO `json:"user"`
}

func toFollowDTO(r *domain.FollowResult) FollowDTO {
	return FollowDTO{
		ID:          r.Follow.ID,
		FollowerID:  r.Follow.FollowerID,
		FollowingID: r.Follow.FollowingID,
		CreatedAt:   r.Follow.CreatedAt.Format(time.RFC3339),
		User:        toUserDTO(r.User),
	}
}

// AvatarUploadDTO tells the client where to PUT the image and which URL to
// store on the profile afterwards.
type AvatarUploadDTO struct {
	Key         string `json:"key"`
	UploadURL   string `json:"uploadUrl"`
	ImageURL    string `json:"imageUrl"`
	ContentType string `json:"contentType"`
	ExpiresAt   string `json:"expiresAt"`
}

func toAvatarUploadDTO(a *domain.AvatarUpload) AvatarUploadDTO {
	return AvatarUploadDTO{
		Key:         a.Key,
		UploadURL:   a.UploadURL,
		ImageURL:    a.ImageURL,
		ContentType: a.ContentType,
		ExpiresAt:   a.ExpiresAt.Format(time.RFC3339),
	}
}
