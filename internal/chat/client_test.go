package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", LocaleFor("en"), nil), srv
}

func TestSendExtractsReply(t *testing.T) {
	var gotBody workflowRequest
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"output": "hi there"}`)
	})

	reply, err := client.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("reply = %q", reply)
	}
	if gotBody.FreeText != "hello" {
		t.Fatalf("free_text = %q", gotBody.FreeText)
	}
	if gotBody.MemoryContext != conversationStart {
		t.Fatalf("memory_context = %q, want start marker", gotBody.MemoryContext)
	}
}

func TestSendNotFound(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Body content must not matter for a 404.
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "irrelevant"}`)
	})

	_, err := client.Send(context.Background(), "hello", nil)
	var re *ReplyError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReplyError, got %v", err)
	}
	if re.Kind != KindNotFound {
		t.Fatalf("kind = %v, want KindNotFound", re.Kind)
	}
	if re.Message != LocaleFor("en").ErrNotFound {
		t.Fatalf("message = %q", re.Message)
	}
}

func TestSendServiceErrorUsesBodyMessage(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"message": "upstream exploded"}`)
	})

	_, err := client.Send(context.Background(), "hello", nil)
	var re *ReplyError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReplyError, got %v", err)
	}
	if re.Kind != KindService {
		t.Fatalf("kind = %v, want KindService", re.Kind)
	}
	if !strings.Contains(re.Message, "upstream exploded") {
		t.Fatalf("message = %q, want body detail", re.Message)
	}
}

func TestSendServiceErrorFallsBackToStatus(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Send(context.Background(), "hello", nil)
	var re *ReplyError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReplyError, got %v", err)
	}
	if !strings.Contains(re.Message, "500") {
		t.Fatalf("message = %q, want status code", re.Message)
	}
}

func TestSendPlainTextReply(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "plain words, no json")
	})

	reply, err := client.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply != "plain words, no json" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestSendPlainTextReplyIsVerbatim(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Surrounding whitespace belongs to the reply.
		fmt.Fprint(w, "  indented reply\n")
	})

	reply, err := client.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply != "  indented reply\n" {
		t.Fatalf("reply = %q, want whitespace preserved", reply)
	}
}

func TestSendUndecodableReply(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Valid JSON, no recognized field anywhere: placeholder, not raw text.
		fmt.Fprint(w, `{"status": "ok", "count": 3}`)
	})

	reply, err := client.Send(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply != LocaleFor("en").Undecodable {
		t.Fatalf("reply = %q, want undecodable placeholder", reply)
	}
}

func TestSendTimeout(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Stall until the caller gives up. The body must be drained first:
		// the server only notices the client disconnect (and cancels the
		// request context) once the handler has consumed the request body.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, "hello", nil)
	var re *ReplyError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReplyError, got %v", err)
	}
	if re.Kind != KindTimeout {
		t.Fatalf("kind = %v, want KindTimeout", re.Kind)
	}
	if re.Message != LocaleFor("en").ErrTimeout {
		t.Fatalf("message = %q", re.Message)
	}
}

func TestSendConnectionLost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(srv.URL, "", LocaleFor("en"), nil)
	srv.Close()

	_, err := client.Send(context.Background(), "hello", nil)
	var re *ReplyError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReplyError, got %v", err)
	}
	if re.Kind != KindConnection {
		t.Fatalf("kind = %v, want KindConnection", re.Kind)
	}
}

func TestBuildMemoryContextExcludesDuplicateAndBounds(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "weather?"},
	}
	got := buildMemoryContext("weather?", history)
	want := "User: hi\nAssistant: hello"
	if got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}
}

func TestBuildMemoryContextKeepsLastTen(t *testing.T) {
	var history []Message
	for i := 0; i < 25; i++ {
		history = append(history, Message{Role: RoleUser, Content: fmt.Sprintf("msg %d", i)})
	}
	got := buildMemoryContext("current", history)
	lines := strings.Split(got, "\n")
	if len(lines) != historyWindow {
		t.Fatalf("kept %d lines, want %d", len(lines), historyWindow)
	}
	if lines[0] != "User: msg 15" || lines[len(lines)-1] != "User: msg 24" {
		t.Fatalf("wrong window: first %q last %q", lines[0], lines[len(lines)-1])
	}
}

func TestBuildMemoryContextDropsEmptyMessages(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: ""},
		{Role: RoleAssistant, Content: ""},
	}
	if got := buildMemoryContext("x", history); got != conversationStart {
		t.Fatalf("context = %q, want start marker", got)
	}
}
