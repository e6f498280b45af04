package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type testRequest struct {
	Method string
	Path   string
	Body   string
	ID     string
}

type testRecorder struct {
	mutex    sync.Mutex
	requests []testRequest
}

func (r *testRecorder) Requests() []testRequest {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]testRequest(nil), r.requests...)
}

func newTestServer(tb testing.TB, status int, body string, recorder *testRecorder) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			tb.Error("Error:", err)
		}
		recorder.mutex.Lock()
		defer recorder.mutex.Unlock()
		recorder.requests = append(recorder.requests, testRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(data),
			ID:     r.Header.Get("X-Request-ID"),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClientObservePosts(t *testing.T) {
	bodies := []string{
		`[]`,
		`[{"id": 1, "title": "T", "content": "C"}]`,
		`[{"id": 2, "title": "A", "content": "B"}, {"id": 1, "title": "<b>", "content": ""}]`,
	}
	for expected, body := range bodies {
		var recorder testRecorder
		server := newTestServer(t, http.StatusOK, body, &recorder)
		client := NewClient(server.URL)
		posts, err := client.ObservePosts(context.Background())
		server.Close()
		if err != nil {
			t.Fatal("Error:", err)
		}
		if posts == nil {
			t.Fatal("Expected non-nil posts")
		}
		if len(posts) != expected {
			t.Fatalf("Expected %d posts, got %d", expected, len(posts))
		}
		requests := recorder.Requests()
		if len(requests) != 1 || requests[0].Method != http.MethodGet || requests[0].Path != "/api/posts" {
			t.Fatalf("Unexpected requests: %v", requests)
		}
		if _, err := uuid.Parse(requests[0].ID); err != nil {
			t.Fatal("Invalid request ID:", err)
		}
	}
}

func TestClientObservePostsNotArray(t *testing.T) {
	for _, body := range []string{`null`, `{"posts": []}`, `"text"`, `42`} {
		var recorder testRecorder
		server := newTestServer(t, http.StatusOK, body, &recorder)
		client := NewClient(server.URL)
		posts, err := client.ObservePosts(context.Background())
		server.Close()
		if err != nil {
			t.Fatal("Error:", err)
		}
		if posts != nil {
			t.Fatalf("Expected nil posts, got %v", posts)
		}
	}
}

func TestClientMutations(t *testing.T) {
	var recorder testRecorder
	server := newTestServer(t, http.StatusCreated, `{"message": "ok"}`, &recorder)
	defer server.Close()
	client := NewClient(server.URL, WithHeader("X-Custom", "1"))
	ctx := context.Background()
	if err := client.CreatePost(ctx, PostForm{Title: "T", Content: "C"}); err != nil {
		t.Fatal("Error:", err)
	}
	if err := client.UpdatePost(ctx, 5, PostForm{Title: "T2", Content: "C2"}); err != nil {
		t.Fatal("Error:", err)
	}
	if err := client.DeletePost(ctx, 5); err != nil {
		t.Fatal("Error:", err)
	}
	expected := []testRequest{
		{Method: http.MethodPost, Path: "/api/posts", Body: `{"title":"T","content":"C"}`},
		{Method: http.MethodPut, Path: "/api/posts/5", Body: `{"title":"T2","content":"C2"}`},
		{Method: http.MethodDelete, Path: "/api/posts/5", Body: ``},
	}
	requests := recorder.Requests()
	if len(requests) != len(expected) {
		t.Fatalf("Expected %d requests, got %d", len(expected), len(requests))
	}
	for i := range expected {
		requests[i].ID = ""
		if requests[i] != expected[i] {
			t.Fatalf("Expected %v, got %v", expected[i], requests[i])
		}
	}
}

func TestClientResponseError(t *testing.T) {
	var recorder testRecorder
	server := newTestServer(t, http.StatusInternalServerError, `{"message": "fail"}`, &recorder)
	defer server.Close()
	client := NewClient(server.URL)
	ctx := context.Background()
	if _, err := client.ObservePosts(ctx); err == nil {
		t.Fatal("Expected error")
	} else {
		expectStatus(t, err, http.StatusInternalServerError)
	}
	err := client.DeletePost(ctx, 1)
	expectStatus(t, err, http.StatusInternalServerError)
	if s := err.Error(); s != "DELETE /api/posts/1: 500 Internal Server Error" {
		t.Fatalf("Unexpected error: %q", s)
	}
	if n := len(recorder.Requests()); n != 2 {
		t.Fatalf("Expected 2 requests, got %d", n)
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()
	client := NewClient(endpoint)
	err := client.CreatePost(context.Background(), PostForm{Title: "T", Content: "C"})
	if err == nil {
		t.Fatal("Expected error")
	}
	var resp *ResponseError
	if errors.As(err, &resp) {
		t.Fatal("Expected network error, got", resp)
	}
	if !strings.HasPrefix(err.Error(), "POST /api/posts: ") {
		t.Fatalf("Unexpected error: %q", err.Error())
	}
}
