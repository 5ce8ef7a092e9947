package usecase

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
)

var (
	textMask  = regexp.MustCompile(entity.TextMask)
	colorMask = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

var (
	errWordLanguage        = validation.NewError("validation_word_language", "must be one of your learning languages")
	errTranslationLanguage = validation.NewError("validation_translation_language", "must be one of your native or learning languages")
	errSameLanguage        = validation.NewError("validation_same_language", "must match the word's language")
	errSelfRelation        = validation.NewError("validation_self_relation", "a word cannot be related to itself")
	errUnknownType         = validation.NewError("validation_unknown_type", "unknown word type")
	errInvalidURL          = validation.NewError("validation_url", "must be a valid URL")
)

// scope is what nested validation and creation need to know about the
// request: the owner, the root word's language and the owner's languages.
type scope struct {
	authorID uuid.UUID
	language string
	native   []string
	learning []string
	now      time.Time
	// editing is set when a stored item is changed through its own endpoint.
	editing bool
}

// presence requires identifying fields of items about to be created. Adopted
// or edited items may omit them but never blank them.
func (s *scope) presence(id *uuid.UUID) validation.Rule {
	if id == nil && !s.editing {
		return validation.Required
	}
	return validation.NilOrNotEmpty
}

func (s *scope) translationLanguages() []any {
	return lo.ToAnySlice(lo.Uniq(append(append([]string{}, s.native...), s.learning...)))
}

func (s *scope) learningLanguages() []any {
	return lo.ToAnySlice(s.learning)
}

// wordLanguageRule requires the word's language when validating inside a word,
// and any learning language otherwise.
func (s *scope) wordLanguageRule() validation.Rule {
	if s.language != "" {
		return validation.In(s.language).ErrorObject(errSameLanguage)
	}
	return validation.In(s.learningLanguages()...).ErrorObject(errWordLanguage)
}

func requiredIf(cond bool) validation.Rule {
	return validation.When(cond, validation.Required)
}

var urlRule = validation.By(func(value any) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errInvalidURL
	}
	return nil
})

// listErrors validates every item of a list and keys failures by index.
func listErrors[T any](items []T, fn func(*T) error) error {
	errs := validation.Errors{}
	for i := range items {
		if err := fn(&items[i]); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	return errs.Filter()
}

// asValidation reports whether err is a field validation failure.
func asValidation(err error) bool {
	var errs validation.Errors
	var single validation.Error
	return errors.As(err, &errs) || errors.As(err, &single)
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

func validateWordText(required bool) []validation.Rule {
	return []validation.Rule{
		requiredIf(required),
		validation.RuneLength(entity.MinWordLength, entity.MaxWordLength),
		validation.Match(textMask),
	}
}

func validateTranslation(in *TranslationInput, s *scope) error {
	return validation.Errors{
		"text": validation.Validate(in.Text,
			s.presence(in.ID),
			validation.RuneLength(entity.MinTranslationLength, entity.MaxTranslationLength),
		),
		"language": validation.Validate(in.Language,
			s.presence(in.ID),
			validation.In(s.translationLanguages()...).ErrorObject(errTranslationLanguage),
		),
	}.Filter()
}

func validateDefinition(in *DefinitionInput, s *scope) error {
	return validation.Errors{
		"text": validation.Validate(in.Text,
			s.presence(in.ID),
			validation.RuneLength(entity.MinDefinitionLength, entity.MaxDefinitionLength),
		),
		"translation": validation.Validate(in.Translation, validation.RuneLength(0, entity.MaxDefinitionLength)),
		"language":    validation.Validate(in.Language, s.wordLanguageRule()),
	}.Filter()
}

func validateExample(in *ExampleInput, s *scope) error {
	return validation.Errors{
		"text": validation.Validate(in.Text,
			s.presence(in.ID),
			validation.RuneLength(entity.MinExampleLength, entity.MaxExampleLength),
		),
		"translation": validation.Validate(in.Translation, validation.RuneLength(0, entity.MaxExampleLength)),
		"language":    validation.Validate(in.Language, s.wordLanguageRule()),
		"source": validation.Validate(in.Source, validation.In(
			string(entity.SourceOther), string(entity.SourceBook), string(entity.SourceFilm),
			string(entity.SourceSong), string(entity.SourceQuote),
		)),
		"source_url": validation.Validate(in.SourceURL, validation.RuneLength(0, entity.MaxImageURLLength), urlRule),
	}.Filter()
}

func validateTag(in *TagInput, s *scope) error {
	return validation.Errors{
		"name": validation.Validate(in.Name,
			s.presence(in.ID),
			validation.RuneLength(entity.MinTagLength, entity.MaxTagLength),
		),
	}.Filter()
}

func validateFormGroup(in *FormGroupInput, s *scope) error {
	return validation.Errors{
		"name": validation.Validate(in.Name,
			s.presence(in.ID),
			validation.RuneLength(entity.MinFormGroupLength, entity.MaxFormGroupLength),
		),
		"language":    validation.Validate(in.Language, s.wordLanguageRule()),
		"color":       validation.Validate(in.Color, validation.Match(colorMask)),
		"translation": validation.Validate(in.Translation, validation.RuneLength(0, entity.MaxFormGroupTranslationLength)),
	}.Filter()
}

func validateCollection(in *CollectionInput, s *scope) error {
	return validation.Errors{
		"title": validation.Validate(in.Title,
			s.presence(in.ID),
			validation.RuneLength(entity.MinCollectionTitleLength, entity.MaxCollectionTitleLength),
		),
		"description": validation.Validate(in.Description, validation.RuneLength(0, entity.MaxCollectionDescriptionLength)),
	}.Filter()
}

func validateImage(in *ImageInput, s *scope) error {
	return validation.Errors{
		"image_url": validation.Validate(in.ImageURL,
			s.presence(in.ID),
			validation.RuneLength(1, entity.MaxImageURLLength),
			urlRule,
		),
	}.Filter()
}

func validateQuote(in *QuoteInput, s *scope) error {
	return validation.Errors{
		"text": validation.Validate(in.Text,
			s.presence(in.ID),
			validation.RuneLength(1, entity.MaxQuoteTextLength),
		),
		"quote_author": validation.Validate(in.QuoteAuthor, validation.RuneLength(0, entity.MaxQuoteAuthorLength)),
	}.Filter()
}

// validateRelation checks one relation entry of the word identified by self.
func validateRelation(in *RelationInput, s *scope, self entity.Key, selfID *uuid.UUID) error {
	w := &in.FromWord
	errs := validation.Errors{
		"note": validation.Validate(in.Note, validation.RuneLength(0, entity.MaxNoteLength)),
	}
	fromWord := validation.Errors{
		"text":     validation.Validate(w.Text, validateWordText(w.ID == nil)...),
		"language": validation.Validate(w.Language, validation.In(s.language).ErrorObject(errSameLanguage)),
		"note":     validation.Validate(w.Note, validation.RuneLength(0, entity.MaxNoteLength)),
	}
	switch {
	case w.ID != nil && selfID != nil && *w.ID == *selfID:
		fromWord["id"] = errSelfRelation
	case w.ID == nil && w.Text != nil && entity.NewKey(*w.Text, s.language) == self:
		fromWord["text"] = errSelfRelation
	}
	errs["from_word"] = fromWord.Filter()
	return errs.Filter()
}

// validateWord checks the scalar fields and every supplied list of in. The
// word's language must already be resolved into s.language.
func validateWord(in *WordInput, s *scope, create bool, self entity.Key, knownTypes []string) error {
	errs := validation.Errors{
		"text":     validation.Validate(in.Text, validateWordText(create)...),
		"language": validation.Validate(in.Language, requiredIf(create), validation.In(s.learningLanguages()...).ErrorObject(errWordLanguage)),
		"note":     validation.Validate(in.Note, validation.RuneLength(0, entity.MaxNoteLength)),
		"activity_status": validation.Validate(in.ActivityStatus, validation.In(
			string(entity.ActivityInactive), string(entity.ActivityActive), string(entity.ActivityMastered),
		)),
		"types": listErrors(in.Types, func(t *string) error {
			return validation.Validate(*t, validation.In(lo.ToAnySlice(knownTypes)...).ErrorObject(errUnknownType))
		}),
	}

	errs["translations"] = listErrors(in.Translations, func(i *TranslationInput) error { return validateTranslation(i, s) })
	errs["definitions"] = listErrors(in.Definitions, func(i *DefinitionInput) error { return validateDefinition(i, s) })
	errs["examples"] = listErrors(in.Examples, func(i *ExampleInput) error { return validateExample(i, s) })
	errs["tags"] = listErrors(in.Tags, func(i *TagInput) error { return validateTag(i, s) })
	errs["form_groups"] = listErrors(in.FormGroups, func(i *FormGroupInput) error { return validateFormGroup(i, s) })
	errs["collections"] = listErrors(in.Collections, func(i *CollectionInput) error { return validateCollection(i, s) })
	errs["image_associations"] = listErrors(in.ImageAssociations, func(i *ImageInput) error { return validateImage(i, s) })
	errs["quote_associations"] = listErrors(in.QuoteAssociations, func(i *QuoteInput) error { return validateQuote(i, s) })
	for _, list := range in.relationLists() {
		errs[list.field] = listErrors(list.items, func(i *RelationInput) error {
			return validateRelation(i, s, self, in.ID)
		})
	}
	return errs.Filter()
}
