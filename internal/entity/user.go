package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account owning vocabulary.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthToken is an opaque API key issued on login.
type AuthToken struct {
	Key       string
	UserID    uuid.UUID
	CreatedAt time.Time
}

// Profile is the user's view of themself.
type Profile struct {
	User
	NativeLanguages   []Language
	LearningLanguages []Language
	WordsCount        int
}
