package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// sendTimeout is the per-send cancellation deadline.
const sendTimeout = 90 * time.Second

// historyWindow bounds how many recent messages accompany a new message.
const historyWindow = 10

// conversationStart is sent as memory context when no usable history exists.
const conversationStart = "Start of conversation"

// defaultIntent marks the request for the workflow's intent routing.
const defaultIntent = "auto"

// ErrorKind classifies send failures into the categories shown to the user.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota
	KindConnection
	KindNotFound
	KindService
)

// ReplyError is the only error type Send returns. Message is display-ready
// and localized; the UI never sees a raw transport or decode error.
type ReplyError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ReplyError) Error() string { return e.Message }
func (e *ReplyError) Unwrap() error { return e.cause }

// Client talks to the remote chat workflow endpoint.
type Client struct {
	EndpointURL string
	APIKey      string
	Locale      Locale
	HTTP        *http.Client

	logger *log.Logger
}

type workflowRequest struct {
	FreeText        string `json:"free_text"`
	IntentSelection string `json:"intent_selection"`
	MemoryContext   string `json:"memory_context"`
}

func NewClient(endpointURL, apiKey string, loc Locale, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		EndpointURL: endpointURL,
		APIKey:      apiKey,
		Locale:      loc,
		HTTP:        &http.Client{},
		logger:      logger,
	}
}

// buildMemoryContext joins the trailing history into "<Role>: <content>"
// lines. Messages equal to the text being sent are skipped so the current
// turn is not duplicated, as are empty messages; only the last
// historyWindow survivors are kept.
func buildMemoryContext(text string, history []Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		if m.Content == "" || m.Content == text {
			continue
		}
		role := "User"
		if m.Role == RoleAssistant {
			role = "Assistant"
		}
		lines = append(lines, role+": "+m.Content)
	}
	if len(lines) > historyWindow {
		lines = lines[len(lines)-historyWindow:]
	}
	if len(lines) == 0 {
		return conversationStart
	}
	return strings.Join(lines, "\n")
}

// Send forwards text plus a bounded history window to the workflow endpoint
// and returns the extracted reply. All failures come back as *ReplyError.
func (c *Client) Send(ctx context.Context, text string, history []Message) (string, error) {
	payload, err := json.Marshal(workflowRequest{
		FreeText:        strings.TrimSpace(text),
		IntentSelection: defaultIntent,
		MemoryContext:   buildMemoryContext(text, history),
	})
	if err != nil {
		return "", &ReplyError{Kind: KindService, Message: fmt.Sprintf(c.Locale.ErrServiceFmt, err), cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.EndpointURL, bytes.NewReader(payload))
	if err != nil {
		return "", &ReplyError{Kind: KindConnection, Message: c.Locale.ErrConnection, cause: err}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		request.Header.Set("X-Api-Key", c.APIKey)
	}

	resp, err := c.HTTP.Do(request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("send timed out", "endpoint", c.EndpointURL)
			return "", &ReplyError{Kind: KindTimeout, Message: c.Locale.ErrTimeout, cause: err}
		}
		c.logger.Warn("send failed", "endpoint", c.EndpointURL, "err", err)
		return "", &ReplyError{Kind: KindConnection, Message: c.Locale.ErrConnection, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &ReplyError{Kind: KindTimeout, Message: c.Locale.ErrTimeout, cause: err}
		}
		return "", &ReplyError{Kind: KindConnection, Message: c.Locale.ErrConnection, cause: err}
	}

	var parsed any
	parseErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode == http.StatusNotFound {
		return "", &ReplyError{Kind: KindNotFound, Message: c.Locale.ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := serviceDetail(parsed)
		if detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		c.logger.Warn("service error", "status", resp.StatusCode, "detail", detail)
		return "", &ReplyError{Kind: KindService, Message: fmt.Sprintf(c.Locale.ErrServiceFmt, detail)}
	}

	if parseErr == nil {
		if reply, ok := ExtractReply(parsed); ok {
			return reply, nil
		}
	} else if strings.TrimSpace(string(raw)) != "" {
		// Plain-text reply from the workflow, passed through untouched.
		return string(raw), nil
	}

	c.logger.Debug("undecodable reply", "body", string(raw))
	return c.Locale.Undecodable, nil
}

// serviceDetail pulls a human-readable message out of an error body.
func serviceDetail(parsed any) string {
	obj, ok := parsed.(map[string]any)
	if !ok {
		return ""
	}
	for _, field := range []string{"message", "error", "detail"} {
		if s, ok := obj[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
