package joke

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), time.Second)
}

func TestClient_Fetch_Success(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != RandomProgrammingPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"type":"programming","setup":"Why?","punchline":"Because.","id":42}]`))
	})

	got, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got.ID != 42 || got.Pergunta != "Why?" || got.Resposta != "Because." {
		t.Errorf("unexpected joke: %+v", got)
	}
}

func TestClient_Fetch_SingleObject(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"setup":"Q","punchline":"A"}`))
	})

	got, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("unexpected joke: %+v", got)
	}
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: ErrProviderUnavailable},
		{name: "not found", status: http.StatusNotFound, body: "", wantErr: ErrProviderUnavailable},
		{name: "redirect response", status: http.StatusFound, body: "", wantErr: ErrProviderUnavailable},
		{name: "invalid json", status: http.StatusOK, body: "not json", wantErr: ErrMalformedResponse},
		{name: "empty array", status: http.StatusOK, body: "[]", wantErr: ErrMalformedResponse},
		{name: "empty body", status: http.StatusOK, body: "", wantErr: ErrMalformedResponse},
		{name: "no content", status: http.StatusOK, body: `[{"id":1}]`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusFound {
					w.Header().Set("Location", "/elsewhere")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Fetch(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	client := NewClient(srv.URL, srv.Client(), 50*time.Millisecond)

	start := time.Now()
	_, err := client.Fetch(context.Background())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("fetch did not honour timeout, took %s", elapsed)
	}
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, nil, time.Second)
	_, err := client.Fetch(context.Background())
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil, 0)
	if c.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", c.baseURL)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %s", c.timeout)
	}

	c = NewClient("http://example.test/", nil, time.Second)
	if c.baseURL != "http://example.test" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}
