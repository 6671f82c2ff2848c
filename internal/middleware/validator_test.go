package middleware

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateMediaType(t *testing.T) {
	ok := []string{"", "application/octet-stream", "application/pdf", "APPLICATION/PDF", "text/plain; charset=utf-8", "image/png"}
	for _, mt := range ok {
		if err := ValidateMediaType(mt); err != nil {
			t.Errorf("ValidateMediaType(%q) = %v, want nil", mt, err)
		}
	}
	bad := []string{"application/x-msdownload", "video/mp4", "application/zip"}
	for _, mt := range bad {
		if err := ValidateMediaType(mt); err == nil {
			t.Errorf("ValidateMediaType(%q) should fail", mt)
		}
	}
}

func TestValidateSessionID(t *testing.T) {
	if err := ValidateSessionID("6e0c1b58-0c1f-4b58-8f58-1b580c1f4b58"); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	for _, id := range []string{"", "abc", "../etc/passwd"} {
		if err := ValidateSessionID(id); err == nil {
			t.Errorf("ValidateSessionID(%q) should fail", id)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"lease.pdf":             "lease.pdf",
		"../../etc/passwd":      "passwd",
		"my lease (final).pdf":  "my lease (final).pdf",
		"we<i>rd$name.pdf":      "we_i_rd_name.pdf",
		"":                      "document",
		"...":                   "document",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeFileNameLongMultibyte(t *testing.T) {
	// non-ASCII runes are replaced before the length cap, so truncation
	// always lands on a byte that is its own rune
	got := SanitizeFileName("a" + strings.Repeat("\u00e9", 200) + "lease.pdf")
	if !utf8.ValidString(got) {
		t.Fatalf("result %q is not valid UTF-8", got)
	}
	if len(got) > 128 {
		t.Fatalf("result is %d bytes, want at most 128", len(got))
	}
	if !strings.HasSuffix(got, "lease.pdf") {
		t.Fatalf("result %q should keep the tail of the name", got)
	}
}

func TestValidatePagination(t *testing.T) {
	if got := ValidateLimit(0); got != 20 {
		t.Errorf("default limit = %d, want 20", got)
	}
	if got := ValidateLimit(500); got != 100 {
		t.Errorf("capped limit = %d, want 100", got)
	}
	if got := ValidatePage(-1); got != 1 {
		t.Errorf("default page = %d, want 1", got)
	}
}
