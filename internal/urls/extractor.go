package urls

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"mvdan.cc/xurls/v2"

	"github.com/gerardrbentley/url-scan/internal/errs"
)

// IANATLDURL is the public list of top-level domains.
const IANATLDURL = "https://data.iana.org/TLD/tlds-alpha-by-domain.txt"

// DefaultProtocol is prepended by WithProtocol to URLs without one.
const DefaultProtocol = "http://"

// SourceBuiltin names the TLD list compiled into the binary.
const SourceBuiltin = "builtin"

// maxTLDListBytes caps the size of a downloaded TLD list.
const maxTLDListBytes = 1 << 20

// Extractor finds URLs in text. Build one with New or Load.
type Extractor struct {
	pattern *regexp.Regexp
	tlds    map[string]struct{}
	source  string
}

// New returns an Extractor using the built-in TLD list.
func New() *Extractor {
	return newExtractor(xurls.TLDs, SourceBuiltin)
}

func newExtractor(tlds []string, source string) *Extractor {
	set := make(map[string]struct{}, len(tlds))
	for _, tld := range tlds {
		if n := normalizeTLD(tld); n != "" {
			set[n] = struct{}{}
		}
	}
	return &Extractor{
		pattern: xurls.Relaxed(),
		tlds:    set,
		source:  source,
	}
}

// Load downloads the TLD list from listURL (IANATLDURL when empty) and returns
// an Extractor using it. Any failure, including an empty list, is an
// errs.ServiceError; callers typically fall back to New.
func Load(ctx context.Context, client *http.Client, listURL string) (*Extractor, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if listURL == "" {
		listURL = IANATLDURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, errs.Service("tld list", fmt.Errorf("failed to create request: %w", err))
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.Service("tld list", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Service("tld list", fmt.Errorf("unexpected status %s", resp.Status))
	}

	tlds, err := parseTLDList(io.LimitReader(resp.Body, maxTLDListBytes))
	if err != nil {
		return nil, errs.Service("tld list", err)
	}
	return newExtractor(tlds, listURL), nil
}

// parseTLDList reads one TLD per line, skipping blanks and # comments.
func parseTLDList(r io.Reader) ([]string, error) {
	var tlds []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tlds = append(tlds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read TLD list: %w", err)
	}
	if len(tlds) == 0 {
		return nil, fmt.Errorf("TLD list is empty")
	}
	return tlds, nil
}

// Source is "builtin" or the URL the TLD list was loaded from.
func (e *Extractor) Source() string { return e.source }

// TLDCount is the number of known top-level domains.
func (e *Extractor) TLDCount() int { return len(e.tlds) }

// HasTLD reports whether tld (any case, Unicode or punycode) is known.
func (e *Extractor) HasTLD(tld string) bool {
	_, ok := e.tlds[normalizeTLD(tld)]
	return ok
}

// FindURLs returns the URLs in text in the order they appear. Duplicates are
// kept. The result is never nil.
func (e *Extractor) FindURLs(text string) []string {
	found := make([]string, 0)
	for _, candidate := range e.pattern.FindAllString(text, -1) {
		if e.accept(candidate) {
			found = append(found, candidate)
		}
	}
	return found
}

func (e *Extractor) accept(candidate string) bool {
	if strings.Contains(candidate, "://") {
		return true
	}
	host := hostOf(candidate)
	if host == "" {
		return false
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return true
	}
	i := strings.LastIndex(host, ".")
	if i < 0 {
		return false
	}
	return e.HasTLD(host[i+1:])
}

// hostOf extracts the host from a scheme-less candidate such as
// "user@www.example.com:8080/path?q".
func hostOf(candidate string) string {
	host := candidate
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if strings.HasPrefix(host, "[") {
		if i := strings.Index(host, "]"); i >= 0 {
			return host[:i+1]
		}
		return ""
	}
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return strings.TrimSuffix(host, ".")
}

func normalizeTLD(tld string) string {
	tld = strings.ToLower(strings.Trim(strings.TrimSpace(tld), "."))
	if tld == "" {
		return ""
	}
	if ascii, err := idna.ToASCII(tld); err == nil {
		return ascii
	}
	return tld
}

// WithProtocol returns u unchanged if it starts with "http", otherwise prefix
// followed by u. An empty prefix means DefaultProtocol.
func WithProtocol(u, prefix string) string {
	if strings.HasPrefix(u, "http") {
		return u
	}
	if prefix == "" {
		prefix = DefaultProtocol
	}
	return prefix + u
}
