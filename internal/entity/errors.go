package entity

import "errors"

// Domain errors shared by usecases and adapters.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrInvalidLogin    = errors.New("unable to log in with provided credentials")
	ErrUnavailable     = errors.New("service unavailable")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrWordNotFound     = errors.New("word not found")
	ErrLanguageNotFound = errors.New("language not found")
	ErrApproachNotFound = errors.New("exercise approach not found")
	ErrAlreadyFavorite  = errors.New("already in favorites")
	ErrNotFavorite      = errors.New("not in favorites")
)

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrWordNotFound) ||
		errors.Is(err, ErrLanguageNotFound) ||
		errors.Is(err, ErrApproachNotFound) ||
		errors.Is(err, ErrNotFavorite)
}
