package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityStatus tracks how far a word is in the learning cycle.
type ActivityStatus string

const (
	ActivityInactive ActivityStatus = "inactive"
	ActivityActive   ActivityStatus = "active"
	ActivityMastered ActivityStatus = "mastered"
)

// Valid reports whether s is one of the known statuses.
func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityInactive, ActivityActive, ActivityMastered:
		return true
	}
	return false
}

// Word is a vocabulary entry owned by a user. It is unique per
// (author, language, lower(text)).
type Word struct {
	ID              uuid.UUID
	AuthorID        uuid.UUID
	Language        string
	Text            string
	Note            string
	ActivityStatus  ActivityStatus
	IsProblematic   bool
	LastExercisedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Types    []string
	Favorite bool
	Counts   WordCounts

	// Nested lists, loaded only for detail reads.
	Translations []Translation
	Definitions  []Definition
	Examples     []UsageExample
	Tags         []Tag
	FormGroups   []FormGroup
	Collections  []Collection
	Images       []ImageAssociation
	Quotes       []QuoteAssociation
	Relations    map[RelationKind][]WordRelation
}

// WordCounts holds the number of linked objects per list.
type WordCounts struct {
	Items     map[Kind]int
	Relations map[RelationKind]int
}

// Item returns the count for a nested kind.
func (c WordCounts) Item(kind Kind) int { return c.Items[kind] }

// Relation returns the count for a relation kind.
func (c WordCounts) Relation(kind RelationKind) int { return c.Relations[kind] }

// Key is the natural key used to resolve an entity among the author's rows.
// Language is ignored by kinds that are not language scoped.
type Key struct {
	Text     string
	Language string
}

// NewKey builds a key with normalized text.
func NewKey(text, language string) Key {
	return Key{Text: NormalizeText(text), Language: language}
}
