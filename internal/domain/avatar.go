package domain

import (
	"context"
	"time"
)

// AvatarUpload describes a presigned direct-to-storage image upload.
// Clients PUT the image bytes to UploadURL with the given ContentType,
// then store ImageURL on their profile.
type AvatarUpload struct {
	Key         string
	UploadURL   string
	ImageURL    string
	ContentType string
	ExpiresAt   time.Time
}

// AvatarStore issues presigned uploads for profile images.
type AvatarStore interface {
	PresignUpload(ctx context.Context, userID, contentType string) (*AvatarUpload, error)
}
