package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Transcript renders a session as a plain-text document: a header with the
// display title and export date, then one block per message with timestamp,
// role label, and content.
func (s *Store) Transcript(sess *Session, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(s.loc.ExportHeaderFmt, s.DisplayTitle(sess)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf(s.loc.ExportDateFmt, now.Format("2006-01-02 15:04")))
	b.WriteString("\n\n")

	for _, m := range sess.Messages {
		role := s.loc.ExportRoleBot
		if m.Role == RoleUser {
			role = s.loc.ExportRoleUser
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n", m.CreatedAt.Format("2006-01-02 15:04:05"), role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// ExportToFile writes the transcript of sess into dir and returns the file
// path. Filenames embed the export time so repeated exports never collide.
func (s *Store) ExportToFile(sess *Session, dir string) (string, error) {
	now := time.Now()
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("chat-%s.txt", now.Format("20060102-150405")))
	if err := os.WriteFile(path, []byte(s.Transcript(sess, now)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
