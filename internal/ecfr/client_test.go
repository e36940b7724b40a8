package ecfr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/regscope/regscope/internal/cache"
	"github.com/regscope/regscope/internal/model"
)

func testConfig(baseURL string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.BaseURL = baseURL
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.MaxBodyBytes = 1 << 20
	cfg.Retry = model.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2,
		MaxDelay:     10 * time.Millisecond,
	}
	return cfg
}

func silenceSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	original := sleepFunc
	var slept []time.Duration
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFunc = original })
	return &slept
}

func TestClient_Titles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/versioner/v1/titles.json" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("Expected a User-Agent header")
		}
		w.Write([]byte(`{"titles":[{"number":1,"name":"General Provisions","reserved":false,"latest_issue_date":"2025-01-02"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)

	titles, err := client.Titles(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(titles) != 1 || titles[0].Number != 1 || titles[0].Name != "General Provisions" {
		t.Errorf("Unexpected titles: %+v", titles)
	}
	if titles[0].IssueDate() != "2025-01-02" {
		t.Errorf("Unexpected issue date: %s", titles[0].IssueDate())
	}
}

func TestClient_TitleStructure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/versioner/v1/structure/2025-01-02/title-17.json" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"type":"title","identifier":"17","children":[{"type":"chapter","identifier":"I"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)

	root, err := client.TitleStructure(context.Background(), 17, "2025-01-02")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if root.Type != model.NodeTitle || root.Identifier != "17" {
		t.Errorf("Unexpected root: %+v", root)
	}
	if len(root.Children) != 1 || root.Children[0].Type != model.NodeChapter {
		t.Errorf("Unexpected children: %+v", root.Children)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	slept := silenceSleep(t)

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"agencies":[{"name":"A","slug":"a"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)

	agencies, err := client.Agencies(context.Background())
	if err != nil {
		t.Fatalf("Expected retries to succeed, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if len(agencies) != 1 || agencies[0].Slug != "a" {
		t.Errorf("Unexpected agencies: %+v", agencies)
	}
	// Backoff doubles from the initial delay
	if len(*slept) != 2 || (*slept)[0] != time.Millisecond || (*slept)[1] != 2*time.Millisecond {
		t.Errorf("Unexpected backoff sequence: %v", *slept)
	}
}

func TestClient_RetriesRateLimit(t *testing.T) {
	silenceSleep(t)

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)

	_, err := client.Titles(context.Background())
	if err == nil {
		t.Fatal("Expected an error after exhausted retries")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	slept := silenceSleep(t)

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)

	_, err := client.TitleStructure(context.Background(), 99, "2025-01-02")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected a single attempt for 404, got %d", attempts)
	}
	if len(*slept) != 0 {
		t.Errorf("Expected no backoff for 404, slept %v", *slept)
	}
}

func TestClient_PayloadCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"titles":[{"number":5,"name":"Administrative Personnel"}]}`))
	}))
	defer server.Close()

	payloads := cache.NewMemoryCache(time.Minute, time.Minute)
	client := NewClient(testConfig(server.URL), nil, payloads)

	for i := 0; i < 2; i++ {
		titles, err := client.Titles(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(titles) != 1 || titles[0].Number != 5 {
			t.Errorf("Unexpected titles: %+v", titles)
		}
	}

	if requests != 1 {
		t.Errorf("Expected the second fetch to hit the cache, server saw %d requests", requests)
	}
}

func TestIsRetryableNetworkError(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"dial tcp: connection refused", true},
		{"context deadline exceeded (Client.Timeout exceeded)", true},
		{"dial tcp: lookup api.example.invalid: no such host", true},
		{"unexpected EOF", false},
	}
	for _, c := range cases {
		if got := isRetryableNetworkError(c.msg); got != c.want {
			t.Errorf("isRetryableNetworkError(%q) = %v, want %v", c.msg, got, c.want)
		}
	}
}
