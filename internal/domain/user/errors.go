package user

import (
	ierr "github.com/invobill/invobill/internal/errors"
)

// ErrUserNotFound is returned when a user does not exist
var ErrUserNotFound = ierr.NewError("user not found").
	WithHint("User not found").
	Mark(ierr.ErrNotFound)
