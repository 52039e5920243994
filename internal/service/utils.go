package service

import (
	"strings"
)

// cleanText trims s and drops invalid UTF-8 sequences, which Postgres rejects in text columns.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, ""))
}
