package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

const wordConflictDetail = "This word is already in your vocabulary."

type listMode int

const (
	// replaceLists makes every supplied list the word's new set of links.
	replaceLists listMode = iota
	// appendLists links supplied items after the existing ones.
	appendLists
)

// position locates an item inside a word payload.
type position struct {
	field string
	index int
}

// Materializer creates or updates a word together with its nested lists. Each
// call runs in a single transaction.
type Materializer struct {
	tx        repository.Transactor
	words     repository.WordRepository
	links     repository.LinkRepository
	relations repository.RelationRepository
	favorites repository.FavoriteRepository
	languages repository.LanguageRepository
	resolver  *Resolver
	kinds     nestedKinds
	clock     func() time.Time
}

// NewMaterializer wires the materializer with its repositories.
func NewMaterializer(
	tx repository.Transactor,
	words repository.WordRepository,
	links repository.LinkRepository,
	relations repository.RelationRepository,
	favorites repository.FavoriteRepository,
	languages repository.LanguageRepository,
	items ItemRepositories,
) *Materializer {
	return &Materializer{
		tx:        tx,
		words:     words,
		links:     links,
		relations: relations,
		favorites: favorites,
		languages: languages,
		resolver:  NewResolver(words),
		kinds:     newNestedKinds(items),
		clock:     time.Now,
	}
}

// Create stores a new word. A payload carrying an id updates that word
// instead; created reports which of the two happened.
func (m *Materializer) Create(ctx context.Context, userID uuid.UUID, in *WordInput) (word *entity.Word, created bool, err error) {
	if in.ID != nil {
		word, err = m.run(ctx, userID, in.ID, in, replaceLists)
		return word, false, err
	}
	word, err = m.run(ctx, userID, nil, in, replaceLists)
	return word, err == nil, err
}

// Update changes the word id. Supplied lists replace the current links.
func (m *Materializer) Update(ctx context.Context, userID, id uuid.UUID, in *WordInput) (*entity.Word, error) {
	in.ID = &id
	return m.run(ctx, userID, &id, in, replaceLists)
}

// Append links the supplied list items to the word id after its existing ones.
func (m *Materializer) Append(ctx context.Context, userID, id uuid.UUID, in *WordInput) (*entity.Word, error) {
	in.ID = &id
	return m.run(ctx, userID, &id, in, appendLists)
}

func (m *Materializer) run(ctx context.Context, userID uuid.UUID, id *uuid.UUID, in *WordInput, mode listMode) (*entity.Word, error) {
	if err := m.prepare(ctx, in); err != nil {
		return nil, err
	}

	s := &scope{authorID: userID, now: m.clock()}
	var err error
	if s.native, s.learning, err = m.userLanguages(ctx, userID); err != nil {
		return nil, err
	}

	var existing *entity.Word
	if id != nil {
		if existing, err = m.words.GetByID(ctx, userID, *id); err != nil {
			return nil, err
		}
	}

	self := rootKey(in, existing)
	s.language = self.Language

	types, err := m.languages.ListWordTypes(ctx)
	if err != nil {
		return nil, err
	}
	knownTypes := lo.Map(types, func(t entity.WordType, _ int) string { return t.Name })
	if err := validateWord(in, s, existing == nil, self, knownTypes); err != nil {
		return nil, err
	}
	if err := m.checkLimits(ctx, in, existing, s, mode); err != nil {
		return nil, err
	}

	var wordID uuid.UUID
	err = m.tx.RunInTx(ctx, func(ctx context.Context) error {
		root, err := m.storeRoot(ctx, userID, in, existing, s)
		if err != nil {
			return err
		}
		wordID = root.ID
		if err := m.storeLists(ctx, root, in, s, mode); err != nil {
			return err
		}
		if existing != nil && mode == replaceLists && suppliesLists(in) {
			return m.sweep(ctx, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.Load(ctx, userID, wordID)
}

// rootKey is the natural key the word will have once in is applied.
func rootKey(in *WordInput, existing *entity.Word) entity.Key {
	var text, language string
	if existing != nil {
		text, language = existing.Text, existing.Language
	}
	if in.Text != nil {
		text = *in.Text
	}
	if in.Language != nil {
		language = *in.Language
	}
	return entity.NewKey(text, language)
}

// prepare trims strings and turns language names into codes. Unknown
// languages are left as typed for validation to report.
func (m *Materializer) prepare(ctx context.Context, in *WordInput) error {
	in.Text, in.Note, in.ActivityStatus = trimPtr(in.Text), trimPtr(in.Note), trimPtr(in.ActivityStatus)
	in.Types = lo.Uniq(lo.Map(in.Types, func(t string, _ int) string { return trimValue(t) }))

	langs := []*string{in.Language}
	for i := range in.Translations {
		t := &in.Translations[i]
		t.Text, t.Language = trimPtr(t.Text), trimPtr(t.Language)
		langs = append(langs, t.Language)
	}
	for i := range in.Definitions {
		d := &in.Definitions[i]
		d.Text, d.Translation, d.Language = trimPtr(d.Text), trimPtr(d.Translation), trimPtr(d.Language)
		langs = append(langs, d.Language)
	}
	for i := range in.Examples {
		e := &in.Examples[i]
		e.Text, e.Translation, e.Language = trimPtr(e.Text), trimPtr(e.Translation), trimPtr(e.Language)
		e.Source, e.SourceURL = trimPtr(e.Source), trimPtr(e.SourceURL)
		langs = append(langs, e.Language)
	}
	for i := range in.Tags {
		in.Tags[i].Name = trimPtr(in.Tags[i].Name)
	}
	for i := range in.FormGroups {
		f := &in.FormGroups[i]
		f.Name, f.Color, f.Translation, f.Language = trimPtr(f.Name), trimPtr(f.Color), trimPtr(f.Translation), trimPtr(f.Language)
		langs = append(langs, f.Language)
	}
	for i := range in.Collections {
		c := &in.Collections[i]
		c.Title, c.Description = trimPtr(c.Title), trimPtr(c.Description)
	}
	for i := range in.ImageAssociations {
		in.ImageAssociations[i].ImageURL = trimPtr(in.ImageAssociations[i].ImageURL)
	}
	for i := range in.QuoteAssociations {
		q := &in.QuoteAssociations[i]
		q.Text, q.QuoteAuthor = trimPtr(q.Text), trimPtr(q.QuoteAuthor)
	}
	for _, list := range in.relationLists() {
		for i := range list.items {
			r := &list.items[i]
			r.Note = trimPtr(r.Note)
			r.FromWord.Text, r.FromWord.Note, r.FromWord.Language = trimPtr(r.FromWord.Text), trimPtr(r.FromWord.Note), trimPtr(r.FromWord.Language)
			langs = append(langs, r.FromWord.Language)
		}
	}

	for _, p := range langs {
		if err := m.resolveLanguage(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func trimValue(s string) string { return *trimPtr(&s) }

func (m *Materializer) resolveLanguage(ctx context.Context, p *string) error {
	if p == nil || *p == "" {
		return nil
	}
	lang, err := m.languages.Find(ctx, *p)
	if errors.Is(err, entity.ErrLanguageNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	*p = lang.Code
	return nil
}

func (m *Materializer) userLanguages(ctx context.Context, userID uuid.UUID) (native, learning []string, err error) {
	code := func(l entity.Language, _ int) string { return l.Code }
	nativeLangs, err := m.languages.UserLanguages(ctx, userID, entity.LanguageNative)
	if err != nil {
		return nil, nil, err
	}
	learningLangs, err := m.languages.UserLanguages(ctx, userID, entity.LanguageLearning)
	if err != nil {
		return nil, nil, err
	}
	return lo.Map(nativeLangs, code), lo.Map(learningLangs, code), nil
}

// checkLimits rejects lists that would outgrow their ceiling. Replaced lists
// count what was submitted; appended lists add the items not linked yet to
// the links already present.
func (m *Materializer) checkLimits(ctx context.Context, in *WordInput, existing *entity.Word, s *scope, mode listMode) error {
	if len(in.Types) > entity.MaxTypesAmount {
		return &entity.AmountLimitError{Field: "types", Limit: entity.MaxTypesAmount}
	}
	appending := mode == appendLists && existing != nil
	k := &m.kinds
	checks := []func() error{
		func() error { return checkKindLimit(ctx, m, &k.translations, in.Translations, existing, s, appending) },
		func() error { return checkKindLimit(ctx, m, &k.definitions, in.Definitions, existing, s, appending) },
		func() error { return checkKindLimit(ctx, m, &k.examples, in.Examples, existing, s, appending) },
		func() error { return checkKindLimit(ctx, m, &k.tags, in.Tags, existing, s, appending) },
		func() error { return checkKindLimit(ctx, m, &k.formGroups, in.FormGroups, existing, s, appending) },
		func() error { return checkKindLimit(ctx, m, &k.collections, in.Collections, existing, s, appending) },
		func() error { return checkKindLimit(ctx, m, &k.images, in.ImageAssociations, existing, s, appending) },
		func() error { return checkKindLimit(ctx, m, &k.quotes, in.QuoteAssociations, existing, s, appending) },
	}
	for _, list := range in.relationLists() {
		list := list
		checks = append(checks, func() error { return m.checkRelationLimit(ctx, list, existing, s, appending) })
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func checkKindLimit[I any, E any](ctx context.Context, m *Materializer, k *nestedKind[I, E], items []I, existing *entity.Word, s *scope, appending bool) error {
	if items == nil || k.limit <= 0 {
		return nil
	}
	n := len(items)
	if appending {
		linked, err := m.links.Linked(ctx, k.kind, existing.ID)
		if err != nil {
			return err
		}
		added, err := unlinkedItems(ctx, k, items, s, linked)
		if err != nil {
			return err
		}
		n = len(linked) + added
	}
	if n > k.limit {
		return &entity.AmountLimitError{Field: k.field, Limit: k.limit}
	}
	return nil
}

// unlinkedItems counts the distinct items that are not linked yet. Items are
// matched by id, or by key when they carry none. Items without either are new.
func unlinkedItems[I any, E any](ctx context.Context, k *nestedKind[I, E], items []I, s *scope, linked []uuid.UUID) (int, error) {
	known := lo.Associate(linked, func(id uuid.UUID) (uuid.UUID, bool) { return id, true })
	seen := make(map[string]struct{}, len(items))
	n := 0
	for i := range items {
		in := &items[i]
		id := k.inputID(in)
		key := k.key(in, s)
		if id == nil {
			match, err := resolveItem(ctx, k.repo, s.authorID, key)
			if err != nil {
				return 0, err
			}
			if match != nil {
				matched := k.id(match)
				id = &matched
			}
		}
		var target string
		switch {
		case id != nil:
			if known[*id] {
				continue
			}
			target = id.String()
		case key.Text != "":
			target = key.Language + "/" + key.Text
		default:
			n++
			continue
		}
		if _, dup := seen[target]; !dup {
			seen[target] = struct{}{}
			n++
		}
	}
	return n, nil
}

func (m *Materializer) checkRelationLimit(ctx context.Context, list relationList, existing *entity.Word, s *scope, appending bool) error {
	limit := entity.RelationLimit(list.kind)
	if list.items == nil || limit <= 0 {
		return nil
	}
	n := len(list.items)
	if appending {
		rels, err := m.relations.List(ctx, list.kind, existing.ID)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]struct{}, len(rels))
		for _, rel := range rels {
			other := rel.ToWordID
			if other == existing.ID {
				other = rel.FromWordID
			}
			known[other] = struct{}{}
		}
		seen := make(map[string]struct{}, len(list.items))
		added := 0
		for i := range list.items {
			word := &list.items[i].FromWord
			id := word.ID
			key := entity.NewKey(optional(word.Text), s.language)
			if id == nil && key.Text != "" {
				match, err := m.resolver.Word(ctx, s.authorID, key)
				if err != nil {
					return err
				}
				if match != nil {
					id = &match.ID
				}
			}
			target := key.Text
			if id != nil {
				if _, ok := known[*id]; ok {
					continue
				}
				target = id.String()
			}
			if _, dup := seen[target]; !dup || target == "" {
				seen[target] = struct{}{}
				added++
			}
		}
		n = len(rels) + added
	}
	if n > limit {
		return &entity.AmountLimitError{Field: list.field, Limit: limit}
	}
	return nil
}

func suppliesLists(in *WordInput) bool {
	return in.Translations != nil || in.Definitions != nil || in.Examples != nil || in.Tags != nil ||
		in.FormGroups != nil || in.ImageAssociations != nil || in.QuoteAssociations != nil
}

// storeRoot creates or updates the word itself, reporting a root conflict
// when its natural key belongs to another word.
func (m *Materializer) storeRoot(ctx context.Context, userID uuid.UUID, in *WordInput, existing *entity.Word, s *scope) (*entity.Word, error) {
	key := rootKey(in, existing)
	match, err := m.resolver.Word(ctx, userID, key)
	if err != nil {
		return nil, err
	}
	if match != nil && (existing == nil || match.ID != existing.ID) {
		return nil, m.wordConflict(ctx, userID, match, in, nil, "text")
	}

	word := existing
	if word == nil {
		word = &entity.Word{
			ID:             uuid.New(),
			AuthorID:       userID,
			ActivityStatus: entity.ActivityInactive,
			CreatedAt:      s.now,
		}
	}
	if in.Text != nil {
		word.Text = *in.Text
	}
	word.Language = key.Language
	if in.Note != nil {
		word.Note = *in.Note
	}
	if in.ActivityStatus != nil {
		word.ActivityStatus = entity.ActivityStatus(*in.ActivityStatus)
	}
	if in.IsProblematic != nil {
		word.IsProblematic = *in.IsProblematic
	}
	word.UpdatedAt = s.now

	if existing == nil {
		word, err = m.words.Create(ctx, word)
	} else {
		word, err = m.words.Update(ctx, word)
	}
	if err != nil {
		return nil, err
	}

	if in.Types != nil {
		if err := m.words.SetTypes(ctx, word.ID, in.Types); err != nil {
			return nil, err
		}
	}
	if in.Favorite != nil {
		if err := m.setFavorite(ctx, userID, word.ID, *in.Favorite); err != nil {
			return nil, err
		}
	}
	return word, nil
}

func (m *Materializer) setFavorite(ctx context.Context, userID, wordID uuid.UUID, favorite bool) error {
	var err error
	if favorite {
		err = m.favorites.Add(ctx, entity.KindWord, userID, wordID)
	} else {
		err = m.favorites.Remove(ctx, entity.KindWord, userID, wordID)
	}
	if errors.Is(err, entity.ErrAlreadyFavorite) || errors.Is(err, entity.ErrNotFavorite) {
		return nil
	}
	return err
}

func (m *Materializer) link(ctx context.Context, mode listMode, kind entity.Kind, wordID uuid.UUID, ids []uuid.UUID) error {
	if mode == appendLists {
		return m.links.Add(ctx, kind, wordID, ids)
	}
	return m.links.Replace(ctx, kind, wordID, ids)
}

func (m *Materializer) storeLists(ctx context.Context, root *entity.Word, in *WordInput, s *scope, mode listMode) error {
	k := &m.kinds
	steps := []struct {
		kind     entity.Kind
		supplied bool
		run      func() ([]uuid.UUID, error)
	}{
		{k.translations.kind, in.Translations != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.translations, in.Translations, s) }},
		{k.definitions.kind, in.Definitions != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.definitions, in.Definitions, s) }},
		{k.examples.kind, in.Examples != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.examples, in.Examples, s) }},
		{k.tags.kind, in.Tags != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.tags, in.Tags, s) }},
		{k.formGroups.kind, in.FormGroups != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.formGroups, in.FormGroups, s) }},
		{k.collections.kind, in.Collections != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.collections, in.Collections, s) }},
		{k.images.kind, in.ImageAssociations != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.images, in.ImageAssociations, s) }},
		{k.quotes.kind, in.QuoteAssociations != nil, func() ([]uuid.UUID, error) { return materializeList(ctx, &k.quotes, in.QuoteAssociations, s) }},
	}
	for _, step := range steps {
		if !step.supplied {
			continue
		}
		ids, err := step.run()
		if err != nil {
			return err
		}
		if err := m.link(ctx, mode, step.kind, root.ID, ids); err != nil {
			return err
		}
	}

	for _, list := range in.relationLists() {
		if list.items == nil {
			continue
		}
		rels := make([]entity.WordRelation, 0, len(list.items))
		seen := map[uuid.UUID]bool{}
		for i := range list.items {
			item := &list.items[i]
			fromID, err := m.relatedWord(ctx, root, &item.FromWord, s, position{field: list.field, index: i})
			if err != nil {
				return err
			}
			if seen[fromID] {
				continue
			}
			seen[fromID] = true
			rels = append(rels, entity.WordRelation{
				Kind:       list.kind,
				FromWordID: fromID,
				ToWordID:   root.ID,
				Note:       optional(item.Note),
			})
		}
		if mode == appendLists {
			for i := range rels {
				if err := m.relations.Add(ctx, &rels[i]); err != nil {
					return err
				}
			}
			continue
		}
		if err := m.relations.Replace(ctx, list.kind, root.ID, rels); err != nil {
			return err
		}
	}
	return nil
}

// relatedWord adopts, reuses or creates the word on the other side of a relation.
func (m *Materializer) relatedWord(ctx context.Context, root *entity.Word, in *RelatedWordInput, s *scope, pos position) (uuid.UUID, error) {
	var word *entity.Word
	if in.ID != nil {
		existing, err := m.words.GetByID(ctx, s.authorID, *in.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if existing.Language != s.language {
			return uuid.Nil, relationError(pos, "language", errSameLanguage)
		}
		word = existing
		if field := relatedWordDiff(in, word); field != "" {
			oldKey := entity.NewKey(word.Text, word.Language)
			applyRelatedWord(in, word, s.now)
			if newKey := entity.NewKey(word.Text, word.Language); newKey != oldKey {
				other, err := m.resolver.Word(ctx, s.authorID, newKey)
				if err != nil {
					return uuid.Nil, err
				}
				if other != nil && other.ID != word.ID {
					return uuid.Nil, m.wordConflict(ctx, s.authorID, other, in, &pos, "text")
				}
			}
			if word, err = m.words.Update(ctx, word); err != nil {
				return uuid.Nil, err
			}
		}
	} else {
		match, err := m.resolver.Word(ctx, s.authorID, entity.NewKey(optional(in.Text), s.language))
		if err != nil {
			return uuid.Nil, err
		}
		if match != nil {
			if field := relatedWordDiff(in, match); field != "" {
				return uuid.Nil, m.wordConflict(ctx, s.authorID, match, in, &pos, field)
			}
			word = match
		} else {
			word = &entity.Word{
				ID:             uuid.New(),
				AuthorID:       s.authorID,
				Language:       s.language,
				ActivityStatus: entity.ActivityInactive,
				CreatedAt:      s.now,
			}
			applyRelatedWord(in, word, s.now)
			if word, err = m.words.Create(ctx, word); err != nil {
				return uuid.Nil, err
			}
		}
	}
	if word.ID == root.ID {
		return uuid.Nil, relationError(pos, "id", errSelfRelation)
	}
	return word.ID, nil
}

func relatedWordDiff(in *RelatedWordInput, w *entity.Word) string {
	switch {
	case in.Text != nil && entity.NormalizeText(*in.Text) != entity.NormalizeText(w.Text):
		return "text"
	case in.Note != nil && *in.Note != w.Note:
		return "note"
	case in.IsProblematic != nil && *in.IsProblematic != w.IsProblematic:
		return "is_problematic"
	}
	return ""
}

func applyRelatedWord(in *RelatedWordInput, w *entity.Word, now time.Time) {
	if in.Text != nil {
		w.Text = *in.Text
	}
	if in.Note != nil {
		w.Note = *in.Note
	}
	if in.IsProblematic != nil {
		w.IsProblematic = *in.IsProblematic
	}
	w.UpdatedAt = now
}

func itemError(pos position, field string, err error) error {
	return validation.Errors{
		pos.field: validation.Errors{
			strconv.Itoa(pos.index): validation.Errors{field: err},
		},
	}
}

func relationError(pos position, field string, err error) error {
	return validation.Errors{
		pos.field: validation.Errors{
			strconv.Itoa(pos.index): validation.Errors{
				"from_word": validation.Errors{field: err},
			},
		},
	}
}

// wordConflict reports that match already holds the key the caller asked for.
func (m *Materializer) wordConflict(ctx context.Context, userID uuid.UUID, match *entity.Word, in any, pos *position, field string) error {
	existing, err := m.Load(ctx, userID, match.ID)
	if err != nil {
		return err
	}
	conflict := &entity.ConflictError{
		Kind:     entity.KindWord,
		Detail:   wordConflictDetail,
		Existing: existing,
		New:      in,
	}
	if pos != nil {
		conflict.NestedField, conflict.Index, conflict.Field = pos.field, pos.index, field
	}
	return conflict
}

// sweep deletes nested entities no word links to anymore. Collections stay.
func (m *Materializer) sweep(ctx context.Context, userID uuid.UUID) error {
	k := &m.kinds
	sweeps := []func() (int64, error){
		func() (int64, error) { return k.translations.repo.DeleteOrphans(ctx, userID) },
		func() (int64, error) { return k.definitions.repo.DeleteOrphans(ctx, userID) },
		func() (int64, error) { return k.examples.repo.DeleteOrphans(ctx, userID) },
		func() (int64, error) { return k.tags.repo.DeleteOrphans(ctx, userID) },
		func() (int64, error) { return k.formGroups.repo.DeleteOrphans(ctx, userID) },
		func() (int64, error) { return k.images.repo.DeleteOrphans(ctx, userID) },
		func() (int64, error) { return k.quotes.repo.DeleteOrphans(ctx, userID) },
	}
	for _, fn := range sweeps {
		if _, err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the word with types, counts, favourite flag and every nested list.
func (m *Materializer) Load(ctx context.Context, userID, id uuid.UUID) (*entity.Word, error) {
	word, err := m.words.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := m.annotate(ctx, userID, []*entity.Word{word}); err != nil {
		return nil, err
	}

	k := &m.kinds
	if word.Translations, err = listByWord(ctx, k.translations.repo, id); err != nil {
		return nil, err
	}
	if word.Definitions, err = listByWord(ctx, k.definitions.repo, id); err != nil {
		return nil, err
	}
	if word.Examples, err = listByWord(ctx, k.examples.repo, id); err != nil {
		return nil, err
	}
	if word.Tags, err = listByWord(ctx, k.tags.repo, id); err != nil {
		return nil, err
	}
	if word.FormGroups, err = listByWord(ctx, k.formGroups.repo, id); err != nil {
		return nil, err
	}
	if word.Collections, err = listByWord(ctx, k.collections.repo, id); err != nil {
		return nil, err
	}
	if word.Images, err = listByWord(ctx, k.images.repo, id); err != nil {
		return nil, err
	}
	if word.Quotes, err = listByWord(ctx, k.quotes.repo, id); err != nil {
		return nil, err
	}

	word.Relations = make(map[entity.RelationKind][]entity.WordRelation, len(entity.RelationKinds))
	for _, kind := range entity.RelationKinds {
		rels, err := m.relations.List(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		for i := range rels {
			other, err := m.words.GetByID(ctx, userID, rels[i].Other(id))
			if err != nil {
				return nil, err
			}
			rels[i].Word = other
		}
		word.Relations[kind] = rels
	}
	return word, nil
}

// annotate fills types, counts and the favourite flag of each word.
func (m *Materializer) annotate(ctx context.Context, userID uuid.UUID, words []*entity.Word) error {
	if len(words) == 0 {
		return nil
	}
	ids := lo.Map(words, func(w *entity.Word, _ int) uuid.UUID { return w.ID })
	types, err := m.words.Types(ctx, ids)
	if err != nil {
		return err
	}
	counts, err := m.words.Counts(ctx, ids)
	if err != nil {
		return err
	}
	favorites, err := m.favorites.Filter(ctx, entity.KindWord, userID, ids)
	if err != nil {
		return err
	}
	for _, w := range words {
		w.Types = types[w.ID]
		w.Counts = counts[w.ID]
		w.Favorite = favorites[w.ID]
	}
	return nil
}

func listByWord[E any](ctx context.Context, repo repository.ItemRepository[E], wordID uuid.UUID) ([]E, error) {
	items, err := repo.ListByWord(ctx, wordID)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(e *E, _ int) E { return *e }), nil
}

// materializeList resolves every item of a nested list and returns the ids
// to link, in order and without repeats.
func materializeList[I any, E any](ctx context.Context, k *nestedKind[I, E], items []I, s *scope) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		id, err := materializeItem(ctx, k, &items[i], s, position{field: k.field, index: i})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return lo.Uniq(ids), nil
}

func materializeItem[I any, E any](ctx context.Context, k *nestedKind[I, E], in *I, s *scope, pos position) (uuid.UUID, error) {
	if id := k.inputID(in); id != nil {
		existing, err := k.repo.GetByID(ctx, s.authorID, *id)
		if err != nil {
			return uuid.Nil, err
		}
		if k.language != nil && k.language(existing) != s.language {
			return uuid.Nil, itemError(pos, "language", errSameLanguage)
		}
		if k.firstDiff(in, existing) == "" {
			return *id, nil
		}
		if _, err := updateItem(ctx, k, existing, in, s, &pos); err != nil {
			return uuid.Nil, err
		}
		return *id, nil
	}

	match, err := resolveItem(ctx, k.repo, s.authorID, k.key(in, s))
	if err != nil {
		return uuid.Nil, err
	}
	if match != nil {
		if k.language != nil && k.language(match) != s.language {
			return uuid.Nil, itemConflict(ctx, k, match, in, s, &pos, "language")
		}
		if field := k.firstDiff(in, match); field != "" {
			return uuid.Nil, itemConflict(ctx, k, match, in, s, &pos, field)
		}
		return k.id(match), nil
	}

	item := k.newItem(s)
	k.apply(in, item)
	created, err := k.repo.Create(ctx, item)
	if err != nil {
		return uuid.Nil, err
	}
	return k.id(created), nil
}

// updateItem applies in onto existing and stores it. Moving onto the natural
// key of another row is a conflict at pos, or a root conflict when pos is nil.
func updateItem[I any, E any](ctx context.Context, k *nestedKind[I, E], existing *E, in *I, s *scope, pos *position) (*E, error) {
	oldKey := k.storedKey(existing)
	k.apply(in, existing)
	k.touch(existing, s.now)
	if newKey := k.storedKey(existing); newKey != oldKey {
		other, err := resolveItem(ctx, k.repo, s.authorID, newKey)
		if err != nil {
			return nil, err
		}
		if other != nil && k.id(other) != k.id(existing) {
			return nil, itemConflict(ctx, k, other, in, s, pos, k.keyField)
		}
	}
	return k.repo.Update(ctx, existing)
}

func itemConflict[I any, E any](ctx context.Context, k *nestedKind[I, E], match *E, in *I, s *scope, pos *position, field string) error {
	existing, err := k.repo.GetByID(ctx, s.authorID, k.id(match))
	if err != nil {
		return err
	}
	conflict := &entity.ConflictError{
		Kind:     k.kind,
		Detail:   k.detail(),
		Existing: existing,
		New:      in,
	}
	if pos != nil {
		conflict.NestedField, conflict.Index, conflict.Field = pos.field, pos.index, field
	}
	return conflict
}
