package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewProxyFuncExplicit(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://sproxy.local:3128", "")

	req := httptest.NewRequest(http.MethodGet, "https://www.ecfr.gov/api", nil)
	u, err := proxy(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil || u.Host != "sproxy.local:3128" {
		t.Errorf("expected https proxy, got %v", u)
	}

	req = httptest.NewRequest(http.MethodGet, "http://www.ecfr.gov/api", nil)
	u, err = proxy(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil || u.Host != "proxy.local:3128" {
		t.Errorf("expected http proxy, got %v", u)
	}
}

func TestNewProxyFuncNoProxyList(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "", "ecfr.gov, internal.example")

	cases := []struct {
		url    string
		direct bool
	}{
		{"http://www.ecfr.gov/api", true},
		{"http://ecfr.gov/api", true},
		{"http://host.internal.example/", true},
		{"http://example.com/", false},
		{"http://notecfr.gov/", false},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		u, err := proxy(req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.url, err)
		}
		if tc.direct && u != nil {
			t.Errorf("%s: expected direct connection, got proxy %v", tc.url, u)
		}
		if !tc.direct && (u == nil || u.Host != "proxy.local:3128") {
			t.Errorf("%s: expected proxy, got %v", tc.url, u)
		}
	}
}
