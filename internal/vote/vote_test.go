package vote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-token", "bot-1")
	c.base = srv.URL
	return c
}

func TestHasVoted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-token" {
			t.Errorf("authorization = %q, want test-token", got)
		}
		if got := r.URL.Query().Get("userId"); got != "user-1" {
			t.Errorf("userId = %q, want user-1", got)
		}
		w.Write([]byte(`{"voted":1}`))
	})

	voted, err := c.HasVoted(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("HasVoted: %v", err)
	}
	if !voted {
		t.Error("voted = false, want true")
	}
}

func TestHasNotVoted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"voted":0}`))
	})

	voted, err := c.HasVoted(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("HasVoted: %v", err)
	}
	if voted {
		t.Error("voted = true, want false")
	}
}

func TestHasVotedServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := c.HasVoted(context.Background(), "user-1"); err == nil {
		t.Error("want error on non-200 response")
	}
}

func TestHasVotedWithoutToken(t *testing.T) {
	c := NewClient("", "bot-1")
	if _, err := c.HasVoted(context.Background(), "user-1"); err == nil {
		t.Error("want error when no token configured")
	}
}
