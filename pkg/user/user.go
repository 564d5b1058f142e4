package user

import "errors"

// ErrNotFound is returned when the referenced user no longer exists.
var ErrNotFound = errors.New("user: user not found")

type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`

	// Name is the display name denormalized into posts and comments
	// at their creation time.
	Name string `json:"name"`

	Password []byte `json:"-"`
}
