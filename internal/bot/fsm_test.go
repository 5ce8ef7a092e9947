package bot

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
)

type fakeAPI struct {
	words     []mapping.Word
	existing  *ExistingWord
	created   []*WordDraft
	updated   map[string]*WordDraft
	fetched   []string
	loggedOut bool
	expired   bool
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (string, error) {
	if username == "ana" && password == "secret" {
		return "tok", nil
	}
	return "", &APIError{Status: http.StatusBadRequest}
}

func (f *fakeAPI) Logout(context.Context, string) error {
	f.loggedOut = true
	return nil
}

func (f *fakeAPI) Profile(context.Context, string) (*mapping.Profile, error) {
	if f.expired {
		return nil, &APIError{Status: http.StatusUnauthorized, Detail: "Invalid token."}
	}
	return &mapping.Profile{
		User:              mapping.User{Username: "ana"},
		NativeLanguages:   []mapping.Language{{Code: "en", Name: "English"}},
		LearningLanguages: []mapping.Language{{Code: "es", Name: "Spanish"}},
		WordsCount:        len(f.words),
	}, nil
}

func (f *fakeAPI) ListWords(_ context.Context, _ string, page, pageSize int, search string) (*Page[mapping.Word], error) {
	var matched []mapping.Word
	for _, w := range f.words {
		if strings.Contains(w.Text, search) {
			matched = append(matched, w)
		}
	}
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return &Page[mapping.Word]{Count: len(matched), Page: page, PageSize: pageSize, Results: matched[start:end]}, nil
}

func (f *fakeAPI) CreateWord(_ context.Context, _ string, draft *WordDraft) (*mapping.WordDetail, error) {
	if f.existing != nil && f.existing.Text == draft.Text {
		return nil, &APIError{Status: http.StatusConflict, Code: codeAlreadyExist, Existing: f.existing}
	}
	f.created = append(f.created, draft)
	return detail(draft), nil
}

func (f *fakeAPI) UpdateWord(_ context.Context, _ string, id string, draft *WordDraft) (*mapping.WordDetail, error) {
	if f.updated == nil {
		f.updated = map[string]*WordDraft{}
	}
	f.updated[id] = draft
	return detail(draft), nil
}

func (f *fakeAPI) GetWord(_ context.Context, _ string, id string) (*mapping.WordDetail, error) {
	f.fetched = append(f.fetched, id)
	if f.existing == nil || f.existing.ID != id {
		return nil, &APIError{Status: http.StatusNotFound, Detail: "Not found."}
	}
	return &mapping.WordDetail{
		Word:         mapping.Word{Text: f.existing.Text, Language: f.existing.Language},
		Translations: f.existing.Translations,
	}, nil
}

func detail(d *WordDraft) *mapping.WordDetail {
	w := &mapping.WordDetail{Word: mapping.Word{Text: d.Text, Language: d.Language}}
	for _, t := range d.Translations {
		w.Translations = append(w.Translations, mapping.Translation{Text: t, Language: d.TranslationLanguage})
	}
	return w
}

func newDispatcher(api API) *Dispatcher {
	logger, _ := test.NewNullLogger()
	return NewDispatcher(api, NewSessionStore(time.Hour), 2, logger)
}

func loggedIn(t *testing.T, d *Dispatcher, chatID int64) {
	t.Helper()
	ctx := context.Background()
	d.HandleText(ctx, chatID, "/login")
	d.HandleText(ctx, chatID, "ana")
	if r := d.HandleText(ctx, chatID, "secret"); r.Text != "Logged in as ana." {
		t.Fatalf("login failed: %q", r.Text)
	}
}

func TestDispatcher_RequiresLogin(t *testing.T) {
	d := newDispatcher(&fakeAPI{})
	if r := d.HandleText(context.Background(), 1, "/words"); !strings.Contains(r.Text, "/login") {
		t.Fatalf("expected login prompt, got %q", r.Text)
	}
}

func TestDispatcher_LoginFailure(t *testing.T) {
	d := newDispatcher(&fakeAPI{})
	ctx := context.Background()
	d.HandleText(ctx, 1, "/login")
	d.HandleText(ctx, 1, "ana")
	r := d.HandleText(ctx, 1, "wrong")
	if !strings.Contains(r.Text, "Unable to log in") {
		t.Fatalf("unexpected reply %q", r.Text)
	}
	if d.sessions.Get(1).LoggedIn() {
		t.Fatalf("session must not hold a token")
	}
}

func TestDispatcher_AddWord(t *testing.T) {
	api := &fakeAPI{}
	d := newDispatcher(api)
	ctx := context.Background()
	loggedIn(t, d, 1)

	r := d.HandleText(ctx, 1, "/add")
	if len(r.Keyboard) != 2 || r.Keyboard[0][0].Data != "lang:es" {
		t.Fatalf("expected language keyboard, got %+v", r.Keyboard)
	}
	d.HandleCallback(ctx, 1, "lang:es")
	d.HandleText(ctx, 1, "casa")
	d.HandleText(ctx, 1, "house, home")
	r = d.HandleText(ctx, 1, "home")
	if r.Text != "Translations: house, home" {
		t.Fatalf("unexpected translations reply %q", r.Text)
	}
	r = d.HandleCallback(ctx, 1, "save")
	if r.Text != "Saved casa (es): house, home" {
		t.Fatalf("unexpected save reply %q", r.Text)
	}
	if len(api.created) != 1 || api.created[0].TranslationLanguage != "en" {
		t.Fatalf("unexpected created drafts %+v", api.created)
	}
	if s := d.sessions.Get(1); s.State != StateIdle || s.Draft != nil {
		t.Fatalf("session not reset: %+v", s)
	}
}

func TestDispatcher_ConflictUpdatesExisting(t *testing.T) {
	api := &fakeAPI{existing: &ExistingWord{ID: "w1", Text: "casa", Language: "es", Translations: []mapping.Translation{{Text: "house"}}}}
	d := newDispatcher(api)
	ctx := context.Background()
	loggedIn(t, d, 1)

	d.HandleText(ctx, 1, "/add")
	d.HandleCallback(ctx, 1, "lang:es")
	d.HandleText(ctx, 1, "casa")
	d.HandleText(ctx, 1, "home")
	r := d.HandleCallback(ctx, 1, "save")
	if !strings.Contains(r.Text, "already in your vocabulary") || !strings.Contains(r.Text, "house") {
		t.Fatalf("unexpected conflict reply %q", r.Text)
	}
	if len(r.Keyboard) != 1 || len(r.Keyboard[0]) != 3 {
		t.Fatalf("unexpected keyboard %+v", r.Keyboard)
	}
	for i, want := range []string{"Update existing", "Use existing", "Cancel"} {
		if got := r.Keyboard[0][i].Text; got != want {
			t.Fatalf("button %d: expected %q, got %q", i, want, got)
		}
	}

	r = d.HandleCallback(ctx, 1, "overwrite")
	if !strings.HasPrefix(r.Text, "Saved casa") {
		t.Fatalf("unexpected overwrite reply %q", r.Text)
	}
	if draft := api.updated["w1"]; draft == nil || draft.Translations[0] != "home" {
		t.Fatalf("expected PATCH of w1, got %+v", api.updated)
	}
}

func TestDispatcher_ConflictKeepsExisting(t *testing.T) {
	api := &fakeAPI{existing: &ExistingWord{ID: "w1", Text: "casa", Language: "es", Translations: []mapping.Translation{{Text: "house"}}}}
	d := newDispatcher(api)
	ctx := context.Background()
	loggedIn(t, d, 1)

	d.HandleText(ctx, 1, "/add")
	d.HandleCallback(ctx, 1, "lang:es")
	d.HandleText(ctx, 1, "casa")
	d.HandleText(ctx, 1, "home")
	d.HandleCallback(ctx, 1, "save")

	r := d.HandleCallback(ctx, 1, "keep")
	if r.Text != "Kept casa (es): house" {
		t.Fatalf("unexpected reply %q", r.Text)
	}
	if len(api.fetched) != 1 || api.fetched[0] != "w1" {
		t.Fatalf("expected GET of w1, got %v", api.fetched)
	}
	if len(api.updated) != 0 {
		t.Fatalf("keeping must not update, got %+v", api.updated)
	}
	if r := d.HandleCallback(ctx, 1, "overwrite"); r.Text != "This button has expired." {
		t.Fatalf("choice must be consumed, got %q", r.Text)
	}
}

func TestDispatcher_ConflictCancel(t *testing.T) {
	api := &fakeAPI{existing: &ExistingWord{ID: "w1", Text: "casa", Language: "es"}}
	d := newDispatcher(api)
	ctx := context.Background()
	loggedIn(t, d, 1)

	d.HandleText(ctx, 1, "/add")
	d.HandleCallback(ctx, 1, "lang:es")
	d.HandleText(ctx, 1, "casa")
	d.HandleText(ctx, 1, "home")
	d.HandleCallback(ctx, 1, "save")
	if r := d.HandleCallback(ctx, 1, "cancel"); r.Text != "Cancelled." {
		t.Fatalf("unexpected reply %q", r.Text)
	}
	if r := d.HandleCallback(ctx, 1, "overwrite"); r.Text != "This button has expired." {
		t.Fatalf("overwrite must be rejected after cancel, got %q", r.Text)
	}
	if len(api.updated) != 0 {
		t.Fatalf("nothing should be updated")
	}
}

func TestDispatcher_Pagination(t *testing.T) {
	api := &fakeAPI{words: []mapping.Word{
		{Text: "casa", Language: "es"},
		{Text: "cama", Language: "es"},
		{Text: "perro", Language: "es", TranslationsCount: 1},
	}}
	d := newDispatcher(api)
	ctx := context.Background()
	loggedIn(t, d, 1)

	r := d.HandleText(ctx, 1, "/words")
	if !strings.HasPrefix(r.Text, "Words 1-2 of 3") || len(r.Keyboard) != 1 || r.Keyboard[0][0].Data != "page:2" {
		t.Fatalf("unexpected first page %q %+v", r.Text, r.Keyboard)
	}
	r = d.HandleCallback(ctx, 1, "page:2")
	if !strings.Contains(r.Text, "3. perro (es) · 1 translations") || r.Keyboard[0][0].Data != "page:1" {
		t.Fatalf("unexpected second page %q %+v", r.Text, r.Keyboard)
	}

	d.HandleText(ctx, 1, "/search")
	r = d.HandleText(ctx, 1, "ca")
	if !strings.Contains(r.Text, `matching "ca"`) || r.Keyboard != nil {
		t.Fatalf("unexpected search reply %q", r.Text)
	}
}

func TestDispatcher_ExpiredToken(t *testing.T) {
	api := &fakeAPI{}
	d := newDispatcher(api)
	ctx := context.Background()
	loggedIn(t, d, 1)

	api.expired = true
	r := d.HandleText(ctx, 1, "/profile")
	if !strings.Contains(r.Text, "expired") {
		t.Fatalf("unexpected reply %q", r.Text)
	}
	if d.sessions.Get(1).LoggedIn() {
		t.Fatalf("token must be dropped")
	}
}

func TestDispatcher_Logout(t *testing.T) {
	api := &fakeAPI{}
	d := newDispatcher(api)
	loggedIn(t, d, 1)

	if r := d.HandleText(context.Background(), 1, "/logout"); r.Text != "Logged out." {
		t.Fatalf("unexpected reply %q", r.Text)
	}
	if !api.loggedOut || d.sessions.Get(1).LoggedIn() {
		t.Fatalf("logout not applied")
	}
}

func TestDispatcher_TransportError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d := NewDispatcher(&brokenAPI{}, NewSessionStore(time.Hour), 5, logger)
	sess := d.sessions.Get(1)
	sess.Token = "tok"
	d.sessions.Save(1, sess)

	r := d.HandleText(context.Background(), 1, "/profile")
	if !strings.Contains(r.Text, "not reachable") {
		t.Fatalf("unexpected reply %q", r.Text)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.ErrorLevel {
		t.Fatalf("expected an error log entry")
	}
}

type brokenAPI struct{ fakeAPI }

func (b *brokenAPI) Profile(context.Context, string) (*mapping.Profile, error) {
	return nil, errors.New("connection refused")
}

func TestSessionStoreExpires(t *testing.T) {
	store := NewSessionStore(20 * time.Millisecond)
	store.Save(7, &Session{Token: "tok"})
	if !store.Get(7).LoggedIn() {
		t.Fatalf("expected stored session")
	}
	time.Sleep(40 * time.Millisecond)
	if store.Get(7).LoggedIn() {
		t.Fatalf("expected session to expire")
	}
}
