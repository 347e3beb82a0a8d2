package model

// Package model contains domain models/data structures.
// Keep it minimal; no business logic here.

import "time"

// FrontMatter is the typed metadata block preceding an MDX document body.
// Extra holds any keys the publishing pipeline does not know about, so
// nothing an external generator wrote gets dropped on re-serialization.
type FrontMatter struct {
	Title   string         `json:"title" yaml:"title"`
	Date    time.Time      `json:"date" yaml:"-"`
	Tags    []string       `json:"tags" yaml:"tags"`
	Draft   bool           `json:"draft" yaml:"draft"`
	Summary string         `json:"summary" yaml:"summary"`
	LastMod time.Time      `json:"lastmod,omitempty" yaml:"-"`
	Extra   map[string]any `json:"extra,omitempty" yaml:"-"`
}
