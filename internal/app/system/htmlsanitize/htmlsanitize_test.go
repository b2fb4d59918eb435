package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/teamhub/internal/app/system/htmlsanitize"
)

func TestSanitize_RemovesScripts(t *testing.T) {
	in := `<p>hello</p><script>alert("xss")</script>`
	out := htmlsanitize.Sanitize(in)

	if strings.Contains(out, "<script>") {
		t.Errorf("script survived: %q", out)
	}
	if !strings.Contains(out, "<p>hello</p>") {
		t.Errorf("safe markup removed: %q", out)
	}
}

func TestSanitize_KeepsFormatting(t *testing.T) {
	in := `<strong>bold</strong> and <a href="https://example.com">a link</a>`
	out := htmlsanitize.Sanitize(in)

	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("strong removed: %q", out)
	}
	if !strings.Contains(out, "example.com") {
		t.Errorf("link removed: %q", out)
	}
}

func TestStripAll(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> name", "bold name"},
		{`<img src=x onerror=alert(1)>`, ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := htmlsanitize.StripAll(tc.in); got != tc.want {
			t.Errorf("StripAll(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
