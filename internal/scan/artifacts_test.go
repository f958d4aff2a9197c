package scan

import "testing"

func TestMarshalList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"nil", nil, "[]"},
		{"empty", []string{}, "[]"},
		{"indented", []string{"example.com", "https://go.dev"}, "[\n    \"example.com\",\n    \"https://go.dev\"\n]"},
		{"latin", []string{"café.fr"}, "[\n    \"caf\\u00e9.fr\"\n]"},
		{"astral", []string{"😀"}, "[\n    \"\\ud83d\\ude00\"\n]"},
		{"delete char", []string{"a\x7fb"}, "[\n    \"a\\u007fb\"\n]"},
		{"html kept", []string{"a<b>&c"}, "[\n    \"a<b>&c\"\n]"},
		{"quotes and newline", []string{"say \"hi\"\n"}, "[\n    \"say \\\"hi\\\"\\n\"\n]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalList(tt.items)
			if err != nil {
				t.Fatalf("MarshalList failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_Artifacts(t *testing.T) {
	r := &Result{
		Lines: []string{"visit example.com"},
		URLs:  []string{"example.com"},
		Links: []Link{{URL: "example.com", Href: "http://example.com"}},
	}

	urlsJSON, err := r.URLsJSON()
	if err != nil {
		t.Fatalf("URLsJSON failed: %v", err)
	}
	if string(urlsJSON) != "[\n    \"example.com\"\n]" {
		t.Errorf("URLsJSON should export stored URLs, not hrefs: %s", urlsJSON)
	}

	textJSON, err := r.TextJSON()
	if err != nil {
		t.Fatalf("TextJSON failed: %v", err)
	}
	if string(textJSON) != "[\n    \"visit example.com\"\n]" {
		t.Errorf("TextJSON: got %s", textJSON)
	}
}
