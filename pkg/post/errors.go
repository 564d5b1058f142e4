package post

import "errors"

// Domain error kinds. Handlers branch on these with errors.Is instead
// of parsing message text.
var (
	// ErrTextRequired means the post or comment body was empty.
	ErrTextRequired = errors.New("post: text is required")

	ErrPostNotFound    = errors.New("post: post not found")
	ErrCommentNotFound = errors.New("post: comment does not exist")

	// ErrNotAuthorized means the caller is not the owner of the entity
	// it tries to remove.
	ErrNotAuthorized = errors.New("post: user is not authorized")

	// State conflicts on the like set.
	ErrAlreadyLiked = errors.New("post: post already liked")
	ErrNotLiked     = errors.New("post: post has not been liked")

	// ErrStoreUnavailable wraps transient persistence failures. The
	// service never retries; callers may.
	ErrStoreUnavailable = errors.New("post: store unavailable")
)
