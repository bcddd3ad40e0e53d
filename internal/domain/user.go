package domain

import "errors"

// User-specific validation errors
var (
	// ErrUserUIDEmpty is returned when a user UID is empty.
	ErrUserUIDEmpty = errors.New("user UID cannot be empty")
)

// User mirrors the identity supplied by the external identity provider on
// sign-in. The application never creates or mutates users; it only keys
// ownership (flashcards, submissions, results) on UID.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.UID == "" {
		return ErrUserUIDEmpty
	}
	return nil
}
