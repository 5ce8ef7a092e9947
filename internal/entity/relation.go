package entity

import (
	"time"

	"github.com/google/uuid"
)

// RelationKind is the flavour of a word-to-word link.
type RelationKind string

const (
	RelationSynonym RelationKind = "synonym"
	RelationAntonym RelationKind = "antonym"
	RelationForm    RelationKind = "form"
	RelationSimilar RelationKind = "similar"
)

// RelationKinds lists every relation kind in display order.
var RelationKinds = []RelationKind{RelationSynonym, RelationAntonym, RelationForm, RelationSimilar}

// WordRelation links two words of the same author. Relations are read
// symmetrically: Word is always the other side relative to the word being viewed.
type WordRelation struct {
	ID         uuid.UUID
	Kind       RelationKind
	FromWordID uuid.UUID
	ToWordID   uuid.UUID
	Note       string
	CreatedAt  time.Time

	Word *Word
}

// Other returns the id of the word on the opposite side of wordID.
func (r WordRelation) Other(wordID uuid.UUID) uuid.UUID {
	if r.FromWordID == wordID {
		return r.ToWordID
	}
	return r.FromWordID
}
