package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calebmaier/swiftadd/pkg/cache"
	"github.com/calebmaier/swiftadd/pkg/errors"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c := New(cache.NewNullCache(), time.Hour, "")
	c.baseURL = serverURL
	return c
}

func TestResolveOwnerRepo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/apple/swift-log":
			json.NewEncoder(w).Encode(repoResponse{
				Name:        "swift-log",
				FullName:    "apple/swift-log",
				CloneURL:    "https://github.com/apple/swift-log.git",
				Description: "A Logging API for Swift",
				Stars:       3500,
			})
		case "/repos/apple/swift-log/releases/latest":
			json.NewEncoder(w).Encode(releaseResponse{TagName: "1.5.4"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	pkg, err := testClient(t, server.URL).Resolve(context.Background(), "apple/swift-log", true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if pkg.URL != "https://github.com/apple/swift-log.git" {
		t.Errorf("unexpected URL: %s", pkg.URL)
	}
	if pkg.Version != "1.5.4" {
		t.Errorf("expected version 1.5.4, got %s", pkg.Version)
	}
	if pkg.FullName != "apple/swift-log" {
		t.Errorf("unexpected full name: %s", pkg.FullName)
	}
}

func TestResolveBareNameSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/repositories":
			json.NewEncoder(w).Encode(searchResponse{
				TotalCount: 2,
				Items: []repoResponse{
					{Name: "Alamofire", FullName: "Alamofire/Alamofire", CloneURL: "https://github.com/Alamofire/Alamofire.git", Stars: 40000},
					{Name: "alamofire-fork", FullName: "x/alamofire-fork", CloneURL: "https://github.com/x/alamofire-fork.git", Stars: 3},
				},
			})
		case "/repos/Alamofire/Alamofire/releases/latest":
			json.NewEncoder(w).Encode(releaseResponse{TagName: "v5.8.1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	pkg, err := testClient(t, server.URL).Resolve(context.Background(), "Alamofire", true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pkg.FullName != "Alamofire/Alamofire" {
		t.Errorf("expected best search match first, got %s", pkg.FullName)
	}
	if pkg.Version != "5.8.1" {
		t.Errorf("expected leading v stripped, got %s", pkg.Version)
	}
}

func TestResolveTagFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/x/y":
			json.NewEncoder(w).Encode(repoResponse{Name: "y", FullName: "x/y", CloneURL: "https://github.com/x/y.git"})
		case "/repos/x/y/releases/latest":
			w.WriteHeader(http.StatusNotFound) // never released
		case "/repos/x/y/tags":
			json.NewEncoder(w).Encode([]tagResponse{
				{Name: "2.0.0-beta.1"},
				{Name: "v1.2.0"},
				{Name: "1.10.0"},
				{Name: "not-a-version"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	pkg, err := testClient(t, server.URL).Resolve(context.Background(), "x/y", true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pkg.Version != "1.10.0" {
		t.Errorf("expected highest stable tag 1.10.0, got %s", pkg.Version)
	}
}

func TestResolveRepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Resolve(context.Background(), "no/such", true)
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("expected PACKAGE_NOT_FOUND, got %v", err)
	}
}

func TestResolveSearchEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Resolve(context.Background(), "nothing", true)
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("expected PACKAGE_NOT_FOUND, got %v", err)
	}
}

func TestResolveUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/repos/a/b":
			json.NewEncoder(w).Encode(repoResponse{Name: "b", FullName: "a/b", CloneURL: "https://github.com/a/b.git"})
		case "/repos/a/b/releases/latest":
			json.NewEncoder(w).Encode(releaseResponse{TagName: "1.0.0"})
		}
	}))
	defer server.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := New(backend, time.Hour, "")
	c.baseURL = server.URL

	if _, err := c.Resolve(context.Background(), "a/b", false); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	first := calls
	if _, err := c.Resolve(context.Background(), "a/b", false); err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if calls != first {
		t.Errorf("expected cached second resolve, got %d extra calls", calls-first)
	}
}

func TestHighestStable(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
		ok   bool
	}{
		{"mixed", []string{"v1.0.0", "2.1.0", "2.0.0"}, "2.1.0", true},
		{"prerelease skipped", []string{"3.0.0-rc.1", "2.9.0"}, "2.9.0", true},
		{"garbage skipped", []string{"nightly", "release-2020"}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HighestStable(tt.tags)
			if got != tt.want || ok != tt.ok {
				t.Errorf("HighestStable(%v) = (%q, %v), want (%q, %v)", tt.tags, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	if err := ValidateVersion("1.2.3"); err != nil {
		t.Errorf("expected 1.2.3 to validate: %v", err)
	}
	if err := ValidateVersion("v1.2.3"); err != nil {
		t.Errorf("expected v1.2.3 to validate: %v", err)
	}
	if err := ValidateVersion("latest"); !errors.Is(err, errors.ErrCodeInvalidVersion) {
		t.Errorf("expected INVALID_VERSION, got %v", err)
	}
}

func TestNewDefaultsTTL(t *testing.T) {
	c := New(cache.NewNullCache(), 0, "")
	if c.ttl != DefaultCacheTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultCacheTTL)
	}

	c = New(cache.NewNullCache(), time.Minute, "")
	if c.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", c.ttl)
	}
}
