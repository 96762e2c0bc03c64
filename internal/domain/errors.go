package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUsernameTaken         = errors.New("username already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrSelfFollowForbidden   = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing      = errors.New("already following")
	ErrNotFollowing          = errors.New("not following")
	ErrTokenInvalid          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrAvatarStorageDisabled = errors.New("avatar storage is not configured")
	ErrInternal              = errors.New("something went wrong")
)

// Stable machine-readable codes exposed to callers.
const (
	CodeUsernameTaken         = "USERNAME_ALREADY_EXISTS"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeInvalidPassword       = "INVALID_PASSWORD"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeSelfFollowForbidden   = "CANNOT_FOLLOW_YOURSELF"
	CodeAlreadyFollowing      = "ALREADY_FOLLOWING"
	CodeNotFollowing          = "NOT_FOLLOWING"
	CodeTokenInvalid          = "TOKEN_INVALID"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeBadUserInput          = "BAD_USER_INPUT"
	CodeNotFound              = "NOT_FOUND"
	CodeAvatarStorageDisabled = "AVATAR_STORAGE_DISABLED"
	CodeInternal              = "INTERNAL_SERVER_ERROR"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrUsernameTaken, CodeUsernameTaken},
	{ErrUserNotFound, CodeUserNotFound},
	{ErrInvalidPassword, CodeInvalidPassword},
	{ErrUnauthorized, CodeUnauthenticated},
	{ErrSelfFollowForbidden, CodeSelfFollowForbidden},
	{ErrAlreadyFollowing, CodeAlreadyFollowing},
	{ErrNotFollowing, CodeNotFollowing},
	{ErrTokenExpired, CodeTokenExpired},
	{ErrTokenInvalid, CodeTokenInvalid},
	{ErrInvalidInput, CodeBadUserInput},
	{ErrNotFound, CodeNotFound},
	{ErrAvatarStorageDisabled, CodeAvatarStorageDisabled},
}

// Code returns the stable code for err. Errors outside the domain
// taxonomy, including ErrInternal, map to CodeInternal.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// IsDomainError reports whether err belongs to the taxonomy above and may
// be shown to a caller as is.
func IsDomainError(err error) bool {
	return Code(err) != CodeInternal
}
