package mapping

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
)

// Word is the list representation of a vocabulary entry.
type Word struct {
	ID              uuid.UUID  `json:"id"`
	Language        string     `json:"language"`
	Text            string     `json:"text"`
	Note            string     `json:"note"`
	ActivityStatus  string     `json:"activity_status"`
	IsProblematic   bool       `json:"is_problematic"`
	Favorite        bool       `json:"favorite"`
	Types           []string   `json:"types"`
	LastExercisedAt *time.Time `json:"last_exercised_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	TranslationsCount      int `json:"translations_count"`
	DefinitionsCount       int `json:"definitions_count"`
	ExamplesCount          int `json:"examples_count"`
	TagsCount              int `json:"tags_count"`
	FormGroupsCount        int `json:"form_groups_count"`
	CollectionsCount       int `json:"collections_count"`
	ImageAssociationsCount int `json:"image_associations_count"`
	QuoteAssociationsCount int `json:"quote_associations_count"`
	SynonymsCount          int `json:"synonyms_count"`
	AntonymsCount          int `json:"antonyms_count"`
	FormsCount             int `json:"forms_count"`
	SimilarsCount          int `json:"similars_count"`
}

// WordDetail is Word with every nested list expanded.
type WordDetail struct {
	Word

	Translations      []Translation `json:"translations"`
	Definitions       []Definition  `json:"definitions"`
	Examples          []Example     `json:"examples"`
	Tags              []Tag         `json:"tags"`
	FormGroups        []FormGroup   `json:"form_groups"`
	Collections       []Collection  `json:"collections"`
	ImageAssociations []Image       `json:"image_associations"`
	QuoteAssociations []Quote       `json:"quote_associations"`
	Synonyms          []Relation    `json:"synonyms"`
	Antonyms          []Relation    `json:"antonyms"`
	Forms             []Relation    `json:"forms"`
	Similars          []Relation    `json:"similars"`
}

// Relation shows the word on the other side of a self-relation.
type Relation struct {
	ID        uuid.UUID `json:"id"`
	FromWord  *Word     `json:"from_word"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

func ToWord(w *entity.Word) Word {
	types := w.Types
	if types == nil {
		types = []string{}
	}
	return Word{
		ID:              w.ID,
		Language:        w.Language,
		Text:            w.Text,
		Note:            w.Note,
		ActivityStatus:  string(w.ActivityStatus),
		IsProblematic:   w.IsProblematic,
		Favorite:        w.Favorite,
		Types:           types,
		LastExercisedAt: w.LastExercisedAt,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,

		TranslationsCount:      w.Counts.Item(entity.KindTranslation),
		DefinitionsCount:       w.Counts.Item(entity.KindDefinition),
		ExamplesCount:          w.Counts.Item(entity.KindExample),
		TagsCount:              w.Counts.Item(entity.KindTag),
		FormGroupsCount:        w.Counts.Item(entity.KindFormGroup),
		CollectionsCount:       w.Counts.Item(entity.KindCollection),
		ImageAssociationsCount: w.Counts.Item(entity.KindImage),
		QuoteAssociationsCount: w.Counts.Item(entity.KindQuote),
		SynonymsCount:          w.Counts.Relation(entity.RelationSynonym),
		AntonymsCount:          w.Counts.Relation(entity.RelationAntonym),
		FormsCount:             w.Counts.Relation(entity.RelationForm),
		SimilarsCount:          w.Counts.Relation(entity.RelationSimilar),
	}
}

func ToWords(words []*entity.Word) []Word {
	return lo.Map(words, func(w *entity.Word, _ int) Word { return ToWord(w) })
}

func ToWordDetail(w *entity.Word) WordDetail {
	return WordDetail{
		Word:              ToWord(w),
		Translations:      mapItems(w.Translations, ToTranslation),
		Definitions:       mapItems(w.Definitions, ToDefinition),
		Examples:          mapItems(w.Examples, ToExample),
		Tags:              mapItems(w.Tags, ToTag),
		FormGroups:        mapItems(w.FormGroups, ToFormGroup),
		Collections:       mapItems(w.Collections, ToCollection),
		ImageAssociations: mapItems(w.Images, ToImage),
		QuoteAssociations: mapItems(w.Quotes, ToQuote),
		Synonyms:          ToRelations(w.Relations[entity.RelationSynonym]),
		Antonyms:          ToRelations(w.Relations[entity.RelationAntonym]),
		Forms:             ToRelations(w.Relations[entity.RelationForm]),
		Similars:          ToRelations(w.Relations[entity.RelationSimilar]),
	}
}

func ToRelations(rels []entity.WordRelation) []Relation {
	out := make([]Relation, 0, len(rels))
	for _, rel := range rels {
		r := Relation{ID: rel.ID, Note: rel.Note, CreatedAt: rel.CreatedAt}
		if rel.Word != nil {
			w := ToWord(rel.Word)
			r.FromWord = &w
		}
		out = append(out, r)
	}
	return out
}

// RelatedList picks one list out of a word detail by its API name.
func RelatedList(d WordDetail, name string) any {
	switch name {
	case "translations":
		return d.Translations
	case "definitions":
		return d.Definitions
	case "examples":
		return d.Examples
	case "tags":
		return d.Tags
	case "form_groups":
		return d.FormGroups
	case "collections":
		return d.Collections
	case "image_associations":
		return d.ImageAssociations
	case "quote_associations":
		return d.QuoteAssociations
	case "synonyms":
		return d.Synonyms
	case "antonyms":
		return d.Antonyms
	case "forms":
		return d.Forms
	case "similars":
		return d.Similars
	}
	return nil
}

// mapItems never returns nil so empty lists encode as [].
func mapItems[E any, D any](items []E, fn func(*E) D) []D {
	out := make([]D, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
