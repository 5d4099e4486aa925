package testhelper

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueOwner returns a collection owner name that no other test uses.
func UniqueOwner(prefix string) string {
	return prefix + "-" + UniqueSuffix()
}

// UniqueName returns a normalized organism name that no other test uses.
func UniqueName(base string) string {
	return strings.ToLower(base) + " " + UniqueSuffix()
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
