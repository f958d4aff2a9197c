// Package urls finds URL-like substrings in recognized text.
//
// Candidates are matched with xurls' relaxed pattern, which accepts bare
// domains such as "example.com" as well as full URLs. A candidate is kept
// when it has a scheme, when its host is an IP address, or when its top-level
// domain is in the Extractor's TLD set.
//
// The TLD set starts as the list compiled into xurls. Load replaces it with
// the current IANA list once at startup; an Extractor never changes after it
// is built and is safe for concurrent use.
//
// Results keep scan order and duplicates. Display links are derived with
// WithProtocol without touching the stored strings.
package urls
