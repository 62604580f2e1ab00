// Package util provides content hashing and small text helpers shared by the handlers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// NormalizeNewlines converts CRLF and lone CR line endings, as sent by browser textareas, to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
