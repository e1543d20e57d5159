package util

import (
	"fmt"
	"strings"
)

// Config holds runtime settings and flags.
type Config struct {
	SeedText       string
	DSN            string // empty: transcript kept in memory only
	MigrationsDir  string // empty: embedded migrations
	Theme          string
	Markdown       bool // render paragraphs through glamour
	Follow         bool // keep the story pinned to the bottom while it grows
	Resume         bool
	DemoParagraphs int
	ImportPath     string
	DebugLog       string
	Version        string
}

// Validate rejects settings the client cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SeedText) == "" {
		return fmt.Errorf("seed text must not be empty")
	}
	if c.DemoParagraphs < 0 {
		return fmt.Errorf("demo paragraph count must not be negative: %d", c.DemoParagraphs)
	}
	if c.Resume && c.DSN == "" {
		return fmt.Errorf("resuming a story requires a database (--dsn or DATABASE_URL)")
	}
	return nil
}
