package chat

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Store holds the authoritative session collection, newest-created first,
// plus the current selection. Every mutation is flushed to disk; a failed
// flush is logged and otherwise ignored so the in-memory state stays
// correct. Callers serialize access; the TUI mutates the store from its
// single update loop only.
//
// Layout:
//
//	<root>/sessions.json   the full collection, messages embedded
//	<root>/current         current session id
//	<root>/background      optional background-image data URI
type Store struct {
	root      string
	loc       Locale
	logger    *log.Logger
	sessions  []*Session
	currentID string
}

func DefaultStateRoot() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "tidechat", "state")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "tidechat", "state")
	}
	return filepath.Join(os.TempDir(), "tidechat", "state")
}

// Open loads the persisted collection from root, validates the remembered
// current id, and guarantees at least one session exists.
func Open(root string, loc Locale, logger *log.Logger) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		root = DefaultStateRoot()
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}

	s := &Store{root: root, loc: loc, logger: logger}

	if b, err := os.ReadFile(s.sessionsPath()); err == nil {
		if err := json.Unmarshal(b, &s.sessions); err != nil {
			logger.Warn("discarding unreadable session file", "path", s.sessionsPath(), "err", err)
			s.sessions = nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if b, err := os.ReadFile(s.currentPath()); err == nil {
		s.currentID = strings.TrimSpace(string(b))
	}

	if len(s.sessions) == 0 {
		s.CreateSession()
		return s, nil
	}
	if s.findSession(s.currentID) == nil {
		s.currentID = s.sessions[0].ID
		s.persist()
	}
	return s, nil
}

func (s *Store) sessionsPath() string   { return filepath.Join(s.root, "sessions.json") }
func (s *Store) currentPath() string    { return filepath.Join(s.root, "current") }
func (s *Store) backgroundPath() string { return filepath.Join(s.root, "background") }

// Sessions returns the collection, newest-created first.
func (s *Store) Sessions() []*Session { return s.sessions }

// Current returns the selected session. The store invariant guarantees a
// non-nil result once Open has returned.
func (s *Store) Current() *Session {
	if sess := s.findSession(s.currentID); sess != nil {
		return sess
	}
	if len(s.sessions) == 0 {
		return nil
	}
	return s.sessions[0]
}

func (s *Store) CurrentID() string { return s.currentID }

func (s *Store) findSession(id string) *Session {
	if id == "" {
		return nil
	}
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// CreateSession prepends a fresh empty session with a placeholder title and
// makes it current.
func (s *Store) CreateSession() *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Title:     s.loc.NewChatTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions = append([]*Session{sess}, s.sessions...)
	s.currentID = sess.ID
	s.persist()
	return sess
}

// SelectSession switches the current session. The id is not validated here;
// callers pick ids from the collection, and load-time validation plus the
// Current() fallback cover a stale pointer.
func (s *Store) SelectSession(id string) {
	s.currentID = id
	s.persist()
}

// SetMessages replaces a session's message log wholesale and bumps its
// timestamp. While the title is still a placeholder, the first message's
// content becomes the title.
func (s *Store) SetMessages(id string, msgs []Message) {
	sess := s.findSession(id)
	if sess == nil {
		return
	}
	sess.Messages = msgs
	sess.UpdatedAt = time.Now()
	if isPlaceholderTitle(sess.Title) && len(msgs) > 0 && msgs[0].Content != "" {
		sess.Title = deriveTitle(msgs[0].Content)
	}
	s.persist()
}

// DeleteSession removes a session immediately and unrecoverably. Deleting
// the current session moves selection to the first remaining one; deleting
// the last session creates a fresh empty one so the collection is never
// empty.
func (s *Store) DeleteSession(id string) {
	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if len(s.sessions) == 0 {
		s.CreateSession()
		return
	}
	if s.currentID == id {
		s.currentID = s.sessions[0].ID
	}
	s.persist()
}

// DisplayTitle derives the title shown in the UI. Placeholder titles are
// replaced at read time by the first user-authored message, falling back to
// the localized placeholder; user-set titles pass through unchanged.
func (s *Store) DisplayTitle(sess *Session) string {
	if !isPlaceholderTitle(sess.Title) {
		return sess.Title
	}
	if content := firstUserContent(sess.Messages); content != "" {
		return deriveTitle(content)
	}
	return s.loc.NewChatTitle
}

// ToggleLike flips the liked flag on a message, clearing disliked; the two
// are mutually exclusive.
func (s *Store) ToggleLike(sessionID, messageID string) {
	s.setFeedback(sessionID, messageID, true)
}

// ToggleDislike flips the disliked flag on a message, clearing liked.
func (s *Store) ToggleDislike(sessionID, messageID string) {
	s.setFeedback(sessionID, messageID, false)
}

func (s *Store) setFeedback(sessionID, messageID string, like bool) {
	sess := s.findSession(sessionID)
	if sess == nil {
		return
	}
	for i := range sess.Messages {
		if sess.Messages[i].ID != messageID {
			continue
		}
		m := &sess.Messages[i]
		if like {
			m.Liked = !m.Liked
			m.Disliked = false
		} else {
			m.Disliked = !m.Disliked
			m.Liked = false
		}
		s.persist()
		return
	}
}

// persist writes the collection and the current pointer. Fire-and-forget:
// failures are logged, never propagated, and do not roll back memory.
func (s *Store) persist() {
	b, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		s.logger.Error("marshal sessions", "err", err)
		return
	}
	if err := os.WriteFile(s.sessionsPath(), b, 0o644); err != nil {
		s.logger.Error("persist sessions", "path", s.sessionsPath(), "err", err)
	}
	if err := os.WriteFile(s.currentPath(), []byte(s.currentID), 0o644); err != nil {
		s.logger.Error("persist current id", "path", s.currentPath(), "err", err)
	}
}
