package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingvo/internal/adapter/mapping"
)

const (
	cbPage      = "page:"
	cbLanguage  = "lang:"
	cbSave      = "save"
	cbOverwrite = "overwrite"
	cbKeep      = "keep"
	cbCancel    = "cancel"
)

const helpText = `Commands:
/login - sign in with your lingvo account
/logout - sign out
/profile - show your languages and word count
/words - list your vocabulary
/search - find words by text
/add - add a word with translations
/cancel - abort the current step`

// API is the part of the REST API the bot uses.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*mapping.Profile, error)
	ListWords(ctx context.Context, token string, page, pageSize int, search string) (*Page[mapping.Word], error)
	CreateWord(ctx context.Context, token string, draft *WordDraft) (*mapping.WordDetail, error)
	UpdateWord(ctx context.Context, token, id string, draft *WordDraft) (*mapping.WordDetail, error)
	GetWord(ctx context.Context, token, id string) (*mapping.WordDetail, error)
}

// Button is an inline keyboard button; Data comes back as a callback.
type Button struct {
	Text string
	Data string
}

// Reply is what the bot answers to one update.
type Reply struct {
	Text     string
	Keyboard [][]Button
}

// Dispatcher runs the per-chat conversation on top of the API.
type Dispatcher struct {
	api      API
	sessions *SessionStore
	pageSize int
	logger   logrus.FieldLogger
}

func NewDispatcher(api API, sessions *SessionStore, pageSize int, logger logrus.FieldLogger) *Dispatcher {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Dispatcher{api: api, sessions: sessions, pageSize: pageSize, logger: logger}
}

// HandleText processes a chat message.
func (d *Dispatcher) HandleText(ctx context.Context, chatID int64, text string) Reply {
	sess := d.sessions.Get(chatID)
	defer d.sessions.Save(chatID, sess)

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		return d.command(ctx, chatID, sess, text)
	}

	switch sess.State {
	case StateLoginUsername:
		sess.Username = text
		sess.State = StateLoginPassword
		return Reply{Text: "Send your password."}
	case StateLoginPassword:
		return d.login(ctx, sess, text)
	case StateSearch:
		sess.State = StateIdle
		sess.Search = text
		return d.listWords(ctx, sess, 1)
	case StateAddText:
		sess.Draft.Text = text
		sess.State = StateAddTranslations
		return Reply{
			Text:     fmt.Sprintf("Send translations of %q, one per message or comma separated.", text),
			Keyboard: saveKeyboard(),
		}
	case StateAddTranslations:
		added := splitTranslations(text)
		sess.Draft.Translations = lo.Uniq(append(sess.Draft.Translations, added...))
		return Reply{
			Text:     "Translations: " + strings.Join(sess.Draft.Translations, ", "),
			Keyboard: saveKeyboard(),
		}
	case StateAddLanguage, StateConfirmOverwrite:
		return Reply{Text: "Use the buttons above or /cancel."}
	default:
		return Reply{Text: helpText}
	}
}

// HandleCallback processes an inline button press.
func (d *Dispatcher) HandleCallback(ctx context.Context, chatID int64, data string) Reply {
	sess := d.sessions.Get(chatID)
	defer d.sessions.Save(chatID, sess)

	switch {
	case data == cbCancel:
		sess.reset()
		return Reply{Text: "Cancelled."}
	case strings.HasPrefix(data, cbPage):
		page, err := strconv.Atoi(strings.TrimPrefix(data, cbPage))
		if err != nil || page < 1 {
			page = 1
		}
		return d.listWords(ctx, sess, page)
	case strings.HasPrefix(data, cbLanguage) && sess.State == StateAddLanguage:
		sess.Draft.Language = strings.TrimPrefix(data, cbLanguage)
		if sess.Draft.TranslationLanguage == "" {
			sess.Draft.TranslationLanguage = sess.Draft.Language
		}
		sess.State = StateAddText
		return Reply{Text: fmt.Sprintf("Send the word in %s.", sess.Draft.Language)}
	case data == cbSave && sess.State == StateAddTranslations:
		return d.submit(ctx, sess)
	case data == cbOverwrite && sess.State == StateConfirmOverwrite:
		return d.overwrite(ctx, sess)
	case data == cbKeep && sess.State == StateConfirmOverwrite:
		return d.keepExisting(ctx, sess)
	default:
		return Reply{Text: "This button has expired."}
	}
}

func (d *Dispatcher) command(ctx context.Context, chatID int64, sess *Session, text string) Reply {
	name, arg, _ := strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/start", "/help":
		sess.reset()
		return Reply{Text: "Welcome to lingvo.\n\n" + helpText}
	case "/cancel":
		sess.reset()
		return Reply{Text: "Cancelled."}
	case "/login":
		sess.reset()
		sess.State = StateLoginUsername
		return Reply{Text: "Send your username or email."}
	case "/logout":
		return d.logout(ctx, chatID, sess)
	}

	if !sess.LoggedIn() {
		return Reply{Text: "Please /login first."}
	}
	switch name {
	case "/profile":
		return d.profile(ctx, sess)
	case "/words":
		sess.reset()
		sess.Search = arg
		return d.listWords(ctx, sess, 1)
	case "/search":
		sess.reset()
		if arg != "" {
			sess.Search = arg
			return d.listWords(ctx, sess, 1)
		}
		sess.State = StateSearch
		return Reply{Text: "Send the text to search for."}
	case "/add":
		return d.startAdd(ctx, sess)
	default:
		return Reply{Text: helpText}
	}
}

func (d *Dispatcher) login(ctx context.Context, sess *Session, password string) Reply {
	sess.State = StateIdle
	token, err := d.api.Login(ctx, sess.Username, password)
	if err != nil {
		if IsStatus(err, http.StatusBadRequest) {
			return Reply{Text: "Unable to log in with provided credentials. Try /login again."}
		}
		return d.failure(sess, err)
	}
	sess.Token = token
	return Reply{Text: fmt.Sprintf("Logged in as %s.", sess.Username)}
}

func (d *Dispatcher) logout(ctx context.Context, chatID int64, sess *Session) Reply {
	if !sess.LoggedIn() {
		return Reply{Text: "You are not logged in."}
	}
	if err := d.api.Logout(ctx, sess.Token); err != nil && !IsStatus(err, http.StatusUnauthorized) {
		return d.failure(sess, err)
	}
	d.sessions.Delete(chatID)
	*sess = Session{Page: 1}
	return Reply{Text: "Logged out."}
}

func (d *Dispatcher) profile(ctx context.Context, sess *Session) Reply {
	p, err := d.api.Profile(ctx, sess.Token)
	if err != nil {
		return d.failure(sess, err)
	}
	codes := func(ls []mapping.Language) string {
		if len(ls) == 0 {
			return "none"
		}
		return strings.Join(lo.Map(ls, func(l mapping.Language, _ int) string { return l.Code }), ", ")
	}
	return Reply{Text: fmt.Sprintf("%s\nNative: %s\nLearning: %s\nWords: %d",
		p.Username, codes(p.NativeLanguages), codes(p.LearningLanguages), p.WordsCount)}
}

func (d *Dispatcher) listWords(ctx context.Context, sess *Session, page int) Reply {
	result, err := d.api.ListWords(ctx, sess.Token, page, d.pageSize, sess.Search)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) && page > 1 {
			return d.listWords(ctx, sess, 1)
		}
		return d.failure(sess, err)
	}
	sess.Page = page
	if result.Count == 0 {
		if sess.Search != "" {
			return Reply{Text: fmt.Sprintf("Nothing matches %q.", sess.Search)}
		}
		return Reply{Text: "Your vocabulary is empty. Use /add to add a word."}
	}

	var b strings.Builder
	first := (page-1)*d.pageSize + 1
	fmt.Fprintf(&b, "Words %d-%d of %d", first, first+len(result.Results)-1, result.Count)
	if sess.Search != "" {
		fmt.Fprintf(&b, " matching %q", sess.Search)
	}
	b.WriteString(":\n")
	for i, w := range result.Results {
		fmt.Fprintf(&b, "%d. %s (%s)", first+i, w.Text, w.Language)
		if w.TranslationsCount > 0 {
			fmt.Fprintf(&b, " · %d translations", w.TranslationsCount)
		}
		b.WriteByte('\n')
	}

	var nav []Button
	if page > 1 {
		nav = append(nav, Button{Text: "« Prev", Data: cbPage + strconv.Itoa(page-1)})
	}
	if page*d.pageSize < result.Count {
		nav = append(nav, Button{Text: "Next »", Data: cbPage + strconv.Itoa(page+1)})
	}
	reply := Reply{Text: strings.TrimRight(b.String(), "\n")}
	if len(nav) > 0 {
		reply.Keyboard = [][]Button{nav}
	}
	return reply
}

func (d *Dispatcher) startAdd(ctx context.Context, sess *Session) Reply {
	sess.reset()
	p, err := d.api.Profile(ctx, sess.Token)
	if err != nil {
		return d.failure(sess, err)
	}
	if len(p.LearningLanguages) == 0 {
		return Reply{Text: "Add a learning language to your profile first."}
	}
	sess.Draft = &WordDraft{}
	if len(p.NativeLanguages) > 0 {
		sess.Draft.TranslationLanguage = p.NativeLanguages[0].Code
	}
	sess.State = StateAddLanguage

	rows := lo.Map(lo.Chunk(p.LearningLanguages, 3), func(chunk []mapping.Language, _ int) []Button {
		return lo.Map(chunk, func(l mapping.Language, _ int) Button {
			return Button{Text: l.Name, Data: cbLanguage + l.Code}
		})
	})
	rows = append(rows, []Button{{Text: "Cancel", Data: cbCancel}})
	return Reply{Text: "Which language is the word in?", Keyboard: rows}
}

func (d *Dispatcher) submit(ctx context.Context, sess *Session) Reply {
	word, err := d.api.CreateWord(ctx, sess.Token, sess.Draft)
	if err == nil {
		sess.reset()
		return Reply{Text: savedText(word)}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && apiErr.Code == codeAlreadyExist && apiErr.Existing != nil {
		sess.State = StateConfirmOverwrite
		sess.ExistingID = apiErr.Existing.ID
		return Reply{
			Text: renderExisting(apiErr.Existing),
			Keyboard: [][]Button{{
				{Text: "Update existing", Data: cbOverwrite},
				{Text: "Use existing", Data: cbKeep},
				{Text: "Cancel", Data: cbCancel},
			}},
		}
	}
	return d.failure(sess, err)
}

func (d *Dispatcher) overwrite(ctx context.Context, sess *Session) Reply {
	word, err := d.api.UpdateWord(ctx, sess.Token, sess.ExistingID, sess.Draft)
	if err != nil {
		return d.failure(sess, err)
	}
	sess.reset()
	return Reply{Text: savedText(word)}
}

// keepExisting drops the draft and shows the stored word instead.
func (d *Dispatcher) keepExisting(ctx context.Context, sess *Session) Reply {
	word, err := d.api.GetWord(ctx, sess.Token, sess.ExistingID)
	if err != nil {
		return d.failure(sess, err)
	}
	sess.reset()
	return Reply{Text: wordText("Kept", word)}
}

// failure renders an API error and resets the conversation.
func (d *Dispatcher) failure(sess *Session, err error) Reply {
	sess.reset()

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		d.logger.WithError(err).Error("api request failed")
		return Reply{Text: "The server is not reachable right now. Try again later."}
	}
	switch {
	case apiErr.Status == http.StatusUnauthorized:
		sess.Token = ""
		return Reply{Text: "Your session has expired. Please /login again."}
	case apiErr.Code == codeAmountLimit:
		return Reply{Text: fmt.Sprintf("Limit reached: %s (at most %d).", apiErr.Detail, apiErr.AmountLimit)}
	case apiErr.Code == codeAlreadyExist:
		return Reply{Text: "This word is already in your vocabulary."}
	case apiErr.Status == http.StatusBadRequest:
		if len(apiErr.Fields) > 0 {
			return Reply{Text: "Please fix:\n" + strings.Join(flattenFields("", apiErr.Fields), "\n")}
		}
		return Reply{Text: apiErr.Detail}
	case apiErr.Status == http.StatusNotFound:
		return Reply{Text: "Not found."}
	default:
		d.logger.WithError(err).WithField("status", apiErr.Status).Error("api request failed")
		return Reply{Text: "Something went wrong. Try again later."}
	}
}

func savedText(w *mapping.WordDetail) string { return wordText("Saved", w) }

func wordText(verb string, w *mapping.WordDetail) string {
	if len(w.Translations) == 0 {
		return fmt.Sprintf("%s %s (%s).", verb, w.Text, w.Language)
	}
	texts := lo.Map(w.Translations, func(t mapping.Translation, _ int) string { return t.Text })
	return fmt.Sprintf("%s %s (%s): %s", verb, w.Text, w.Language, strings.Join(texts, ", "))
}

func renderExisting(w *ExistingWord) string {
	text := fmt.Sprintf("%s (%s) is already in your vocabulary.", w.Text, w.Language)
	if len(w.Translations) > 0 {
		texts := lo.Map(w.Translations, func(t mapping.Translation, _ int) string { return t.Text })
		text += "\nTranslations: " + strings.Join(texts, ", ")
	}
	return text + "\nUpdate it with your translations or keep it as it is?"
}

func saveKeyboard() [][]Button {
	return [][]Button{{{Text: "Save", Data: cbSave}, {Text: "Cancel", Data: cbCancel}}}
}

func splitTranslations(text string) []string {
	parts := lo.Map(strings.Split(text, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Filter(parts, func(s string, _ int) bool { return s != "" })
}

// flattenFields turns a validation body into "path: message" lines.
func flattenFields(prefix string, fields map[string]any) []string {
	keys := lo.Keys(fields)
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch v := fields[k].(type) {
		case map[string]any:
			lines = append(lines, flattenFields(path, v)...)
		case []any:
			msgs := lo.FilterMap(v, func(m any, _ int) (string, bool) {
				s, ok := m.(string)
				return s, ok
			})
			lines = append(lines, path+": "+strings.Join(msgs, " "))
		case string:
			lines = append(lines, path+": "+v)
		}
	}
	return lines
}
