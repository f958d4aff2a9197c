package urls

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gerardrbentley/url-scan/internal/errs"
)

func TestFindURLs(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"bare domain", "visit example.com now", []string{"example.com"}},
		{"duplicates kept in order", "a.com b.org a.com", []string{"a.com", "b.org", "a.com"}},
		{"scheme and path", "docs at https://go.dev/doc/effective_go ok", []string{"https://go.dev/doc/effective_go"}},
		{"trailing period", "see www.example.org.", []string{"www.example.org"}},
		{"no urls", "hello world", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.FindURLs(tt.text)
			if got == nil {
				t.Fatal("FindURLs should never return nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindURLs(%q): got %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindURLs_JoinedLines(t *testing.T) {
	lines := []string{"Scan me", "example.com/menu", "or call", "shop.example.net"}
	text := strings.Join(lines, " ")

	got := New().FindURLs(text)
	want := []string{"example.com/menu", "shop.example.net"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAccept(t *testing.T) {
	e := newExtractor([]string{"com"}, "test")

	tests := []struct {
		candidate string
		want      bool
	}{
		{"example.com", true},
		{"EXAMPLE.COM/x", true},
		{"user@mail.example.com:8080/inbox", true},
		{"example.dev", false},
		{"https://example.dev", true},
		{"10.0.0.1:8080/status", true},
		{"[::1]:80/", true},
		{"localhost", false},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			if got := e.accept(tt.candidate); got != tt.want {
				t.Errorf("accept(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestHostOf(t *testing.T) {
	tests := map[string]string{
		"example.com":               "example.com",
		"www.example.com/a/b?c#d":   "www.example.com",
		"user:pw@example.com:443/x": "example.com",
		"example.com.":              "example.com",
		"[2001:db8::1]:8080/path":   "[2001:db8::1]",
		"10.0.0.1:8080":             "10.0.0.1",
	}
	for in, want := range tests {
		if got := hostOf(in); got != want {
			t.Errorf("hostOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasTLD_IDN(t *testing.T) {
	e := newExtractor([]string{"XN--P1AI"}, "test")

	for _, tld := range []string{"xn--p1ai", "рф", ".РФ"} {
		if !e.HasTLD(tld) {
			t.Errorf("HasTLD(%q) = false", tld)
		}
	}
	if !e.accept("пример.рф") {
		t.Error("a Unicode host under a known IDN TLD should be accepted")
	}
}

func TestNew_BuiltinTLDs(t *testing.T) {
	e := New()
	if e.Source() != SourceBuiltin {
		t.Errorf("Source: got %s, want %s", e.Source(), SourceBuiltin)
	}
	if e.TLDCount() < 1000 {
		t.Errorf("built-in list looks too small: %d", e.TLDCount())
	}
	for _, tld := range []string{"com", "ORG", ".net", "io"} {
		if !e.HasTLD(tld) {
			t.Errorf("HasTLD(%q) = false", tld)
		}
	}
	if e.HasTLD("notatld") {
		t.Error("HasTLD(notatld) = true")
	}
}

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "# Version 2024010100, Last Updated Mon Jan  1 07:07:01 2024 UTC\nCOM\nORG\nXN--P1AI\n\n")
	}))
	defer srv.Close()

	e, err := Load(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if e.TLDCount() != 3 {
		t.Errorf("TLDCount: got %d, want 3", e.TLDCount())
	}
	if e.Source() != srv.URL {
		t.Errorf("Source: got %s, want %s", e.Source(), srv.URL)
	}
	if !e.HasTLD("рф") {
		t.Error("Unicode TLD should match its punycode entry")
	}

	got := e.FindURLs("example.com and example.dev")
	if !reflect.DeepEqual(got, []string{"example.com"}) {
		t.Errorf("loaded list should restrict matches, got %q", got)
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusInternalServerError)
		}},
		{"empty list", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "# only a comment\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := Load(context.Background(), srv.Client(), srv.URL)
			if !errors.Is(err, errs.ErrService) {
				t.Errorf("got %v, want ErrService", err)
			}
		})
	}
}

func TestLoad_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := Load(context.Background(), nil, url); !errors.Is(err, errs.ErrService) {
		t.Errorf("got %v, want ErrService", err)
	}
}

func TestWithProtocol(t *testing.T) {
	tests := []struct {
		url    string
		prefix string
		want   string
	}{
		{"example.com", "", "http://example.com"},
		{"http://example.com", "", "http://example.com"},
		{"https://example.com", "", "https://example.com"},
		{"www.example.com/a", "https://", "https://www.example.com/a"},
		// Only the "http" prefix is checked.
		{"httpbin.org", "", "httpbin.org"},
		{"ftp://example.com", "", "http://ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := WithProtocol(tt.url, tt.prefix); got != tt.want {
				t.Errorf("WithProtocol(%q, %q) = %q, want %q", tt.url, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestWithProtocol_DoesNotMutate(t *testing.T) {
	found := []string{"example.com", "https://go.dev"}
	for _, u := range found {
		_ = WithProtocol(u, "")
	}
	if found[0] != "example.com" {
		t.Error("stored URL changed")
	}
}
