package bot

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// State is the step of a chat conversation.
type State string

const (
	StateIdle             State = ""
	StateLoginUsername    State = "login_username"
	StateLoginPassword    State = "login_password"
	StateSearch           State = "search"
	StateAddLanguage      State = "add_language"
	StateAddText          State = "add_text"
	StateAddTranslations  State = "add_translations"
	StateConfirmOverwrite State = "confirm_overwrite"
)

// Session is the per-chat conversation state.
type Session struct {
	State    State
	Token    string
	Username string

	Draft      *WordDraft
	ExistingID string

	Search string
	Page   int
}

// LoggedIn reports whether the chat holds an API token.
func (s *Session) LoggedIn() bool { return s.Token != "" }

func (s *Session) reset() {
	s.State = StateIdle
	s.Draft = nil
	s.ExistingID = ""
}

// SessionStore keeps sessions in memory and forgets chats idle for longer than the ttl.
type SessionStore struct {
	items *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{items: cache.New(ttl, ttl/2)}
}

// Get returns the session of chatID, creating an empty one when absent.
func (s *SessionStore) Get(chatID int64) *Session {
	if v, ok := s.items.Get(key(chatID)); ok {
		return v.(*Session)
	}
	return &Session{Page: 1}
}

// Save stores sess and restarts its expiry.
func (s *SessionStore) Save(chatID int64, sess *Session) {
	s.items.SetDefault(key(chatID), sess)
}

func (s *SessionStore) Delete(chatID int64) {
	s.items.Delete(key(chatID))
}

func key(chatID int64) string { return strconv.FormatInt(chatID, 10) }
