package util

import "testing"

func TestContentHash(t *testing.T) {
	// sha256 of the empty string
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	if got := ContentHash(nil); got != empty {
		t.Errorf("Expected %s, got %s", empty, got)
	}
	if ContentHashString("a") == ContentHashString("b") {
		t.Error("Expected different hashes for different content")
	}
	if ContentHashString("post") != ContentHash([]byte("post")) {
		t.Error("Expected string and byte hashes to agree")
	}
}

func TestNormalizeNewlines(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\nb", "a\nb"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := NormalizeNewlines(tc.in); got != tc.want {
			t.Errorf("NormalizeNewlines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
