package chat

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestTranscriptLayout(t *testing.T) {
	s := openTestStore(t)
	sess := s.Current()
	s.SetMessages(sess.ID, []Message{
		NewMessage(RoleUser, "what is the tide?"),
		NewMessage(RoleAssistant, "High at noon."),
	})

	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	doc := s.Transcript(sess, now)

	if !strings.Contains(doc, "Conversation: what is the tide?") {
		t.Fatalf("missing header:\n%s", doc)
	}
	if !strings.Contains(doc, "Exported: 2025-03-14 09:30") {
		t.Fatalf("missing export date:\n%s", doc)
	}
	if !strings.Contains(doc, "You:\nwhat is the tide?") {
		t.Fatalf("missing user block:\n%s", doc)
	}
	if !strings.Contains(doc, "Assistant:\nHigh at noon.") {
		t.Fatalf("missing assistant block:\n%s", doc)
	}
}

func TestTranscriptUsesLocaleRoleLabels(t *testing.T) {
	s, err := Open(t.TempDir(), LocaleFor("es"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sess := s.Current()
	s.SetMessages(sess.ID, []Message{NewMessage(RoleUser, "hola")})

	doc := s.Transcript(sess, time.Now())
	if !strings.Contains(doc, "Tú:") {
		t.Fatalf("expected localized role label:\n%s", doc)
	}
}

func TestExportToFileWritesTimestampedFile(t *testing.T) {
	s := openTestStore(t)
	sess := s.Current()
	s.SetMessages(sess.ID, []Message{NewMessage(RoleUser, "hello")})

	dir := t.TempDir()
	path, err := s.ExportToFile(sess, dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".txt") {
		t.Fatalf("unexpected path %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "hello") {
		t.Fatalf("export content missing message:\n%s", b)
	}
}
