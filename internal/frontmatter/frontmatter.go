package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"contentapi/internal/model"
)

// Package frontmatter splits and decodes the YAML metadata block that leads an
// MDX/markdown document. The block is delimited by lines containing exactly
// "---"; everything after the closing delimiter is the document body and is
// treated as opaque text.

var (
	ErrNoFrontMatter = errors.New("document has no front matter block")
	ErrUnterminated  = errors.New("front matter block is not terminated")
)

var delim = []byte("---")

// dateLayouts accepted for the date and lastmod fields. Bare ISO dates are
// what static-site front matter typically carries; RFC3339 appears when the
// document was machine-generated.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Split separates the front matter block from the body. The returned meta
// slice excludes both delimiter lines. A document that does not begin with
// the delimiter yields ErrNoFrontMatter; an opening delimiter without a
// closing one yields ErrUnterminated.
func Split(src []byte) (meta, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf")) // strip UTF-8 BOM

	rest, ok := cutLine(src)
	if !ok || !isDelim(src[:len(src)-len(rest)]) {
		return nil, nil, ErrNoFrontMatter
	}

	scan := rest
	for len(scan) > 0 {
		after, _ := cutLine(scan)
		line := scan[:len(scan)-len(after)]
		if isDelim(line) {
			return rest[:len(rest)-len(scan)], after, nil
		}
		scan = after
	}
	return nil, nil, ErrUnterminated
}

// Parse splits src and decodes the metadata into a typed FrontMatter.
// Keys outside the known set are kept in FrontMatter.Extra.
func Parse(src []byte) (*model.FrontMatter, []byte, error) {
	meta, body, err := Split(src)
	if err != nil {
		return nil, nil, err
	}

	var raw struct {
		Title   string   `yaml:"title"`
		Date    string   `yaml:"date"`
		Tags    []string `yaml:"tags"`
		Draft   bool     `yaml:"draft"`
		Summary string   `yaml:"summary"`
		LastMod string   `yaml:"lastmod"`
	}
	if err := yaml.Unmarshal(meta, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode front matter: %w", err)
	}

	fm := &model.FrontMatter{
		Title:   raw.Title,
		Tags:    raw.Tags,
		Draft:   raw.Draft,
		Summary: raw.Summary,
	}

	if raw.Date != "" {
		d, err := parseDate(raw.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("decode front matter: date: %w", err)
		}
		fm.Date = d
	}
	if raw.LastMod != "" {
		d, err := parseDate(raw.LastMod)
		if err != nil {
			return nil, nil, fmt.Errorf("decode front matter: lastmod: %w", err)
		}
		fm.LastMod = d
	}

	fm.Extra = extraKeys(meta)
	return fm, body, nil
}

// extraKeys decodes meta generically and drops the known fields, leaving
// whatever an external generator added. Returns nil when nothing remains.
func extraKeys(meta []byte) map[string]any {
	var all map[string]any
	if err := yaml.Unmarshal(meta, &all); err != nil {
		return nil
	}
	for _, k := range []string{"title", "date", "tags", "draft", "summary", "lastmod"} {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// cutLine returns the content after the first newline and whether a line
// (terminated or final) was present at all.
func cutLine(b []byte) (rest []byte, ok bool) {
	if len(b) == 0 {
		return nil, false
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[i+1:], true
	}
	return b[len(b):], true
}

// isDelim reports whether line (including any trailing newline) is exactly "---".
func isDelim(line []byte) bool {
	line = bytes.TrimRight(line, "\r\n")
	return bytes.Equal(line, delim)
}
