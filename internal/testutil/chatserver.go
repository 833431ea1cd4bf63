package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ChatMessage is one message of a recorded chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a recorded chat completion request
type ChatRequest struct {
	Model         string        `json:"model"`
	Messages      []ChatMessage `json:"messages"`
	Authorization string        `json:"-"`
}

// ChatServer is a fake OpenAI-compatible chat completion endpoint
type ChatServer struct {
	*httptest.Server

	mu       sync.Mutex
	reply    string
	status   int
	requests []ChatRequest
}

// NewChatServer starts a server answering every completion with reply.
// It is closed when the test ends.
func NewChatServer(t *testing.T, reply string) *ChatServer {
	t.Helper()

	s := &ChatServer{reply: reply, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handle(t, w, r)
	}))
	t.Cleanup(s.Close)

	return s
}

// FailWith makes the server answer with an OpenAI style error
func (s *ChatServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Requests returns the requests received so far
func (s *ChatServer) Requests() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.requests...)
}

func (s *ChatServer) handle(t *testing.T, w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat/completions" {
		t.Errorf("Unexpected request path %s", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	var req ChatRequest
	body, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(body, &req); err != nil {
		t.Errorf("Invalid chat request body: %v", err)
	}
	req.Authorization = r.Header.Get("Authorization")

	s.mu.Lock()
	s.requests = append(s.requests, req)
	status, reply := s.status, s.reply
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if status != http.StatusOK {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":{"message":"request failed","type":"invalid_request_error","code":"%d"}}`, status)
		return
	}

	content, _ := json.Marshal(reply)
	fmt.Fprintf(w, `{"id":"chatcmpl-test","object":"chat.completion","model":%q,"choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`,
		req.Model, content)
}
