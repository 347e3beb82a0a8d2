package lint

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"contentapi/internal/frontmatter"
)

// Package lint runs document-level checks over an MDX post before it is
// accepted for publishing: the front matter must decode, required metadata
// fields must be non-empty, and every fenced code block must be closed.

// Severity of a lint issue. Errors block publishing; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes.
const (
	CodeFrontMatterMissing      = "FRONTMATTER_MISSING"
	CodeFrontMatterUnterminated = "FRONTMATTER_UNTERMINATED"
	CodeFrontMatterInvalid      = "FRONTMATTER_INVALID"
	CodeFieldRequired           = "FIELD_REQUIRED"
	CodeTagsEmpty               = "TAGS_EMPTY"
	CodeTagBlank                = "TAG_BLANK"
	CodeTagDuplicate            = "TAG_DUPLICATE"
	CodeFenceUnterminated       = "FENCE_UNTERMINATED"
)

// Issue is a single finding. Line is 1-based where known, 0 otherwise.
type Issue struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
}

// Report collects the issues found in one document.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Err returns a non-nil error when the report contains at least one
// error-severity issue, naming the offending codes.
func (r Report) Err() error {
	var codes []string
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			codes = append(codes, is.Code)
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return fmt.Errorf("document failed lint: %s", strings.Join(codes, ", "))
}

// HasErrors reports whether any error-severity issue is present.
func (r Report) HasErrors() bool {
	return r.Err() != nil
}

func (r *Report) add(code string, sev Severity, line int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Code:     code,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}

// Check lints src and returns the full report. It never fails outright; a
// document with a broken front matter block still gets its body (or, absent
// a body boundary, the whole document) scanned for unterminated fences.
func Check(src []byte) Report {
	var rep Report

	fm, body, err := frontmatter.Parse(src)
	bodyOffset := 0
	switch {
	case errors.Is(err, frontmatter.ErrNoFrontMatter):
		rep.add(CodeFrontMatterMissing, SeverityError, 1, "document does not start with a front matter block")
		body = src
	case errors.Is(err, frontmatter.ErrUnterminated):
		rep.add(CodeFrontMatterUnterminated, SeverityError, 1, "front matter block has no closing delimiter")
		return rep
	case err != nil:
		rep.add(CodeFrontMatterInvalid, SeverityError, 1, "front matter does not decode: %v", err)
		// Body boundary is still recoverable when only the YAML is bad.
		if _, b, splitErr := frontmatter.Split(src); splitErr == nil {
			body = b
			bodyOffset = lineCount(src[:len(src)-len(body)])
		} else {
			body = src
		}
	default:
		bodyOffset = lineCount(src[:len(src)-len(body)])
		checkFields(&rep, fm.Title, fm.Summary, fm.Date.IsZero(), fm.Tags)
	}

	checkFences(&rep, body, bodyOffset)
	return rep
}

func checkFields(rep *Report, title, summary string, dateZero bool, tags []string) {
	if strings.TrimSpace(title) == "" {
		rep.add(CodeFieldRequired, SeverityError, 0, "front matter field %q is required", "title")
	}
	if dateZero {
		rep.add(CodeFieldRequired, SeverityError, 0, "front matter field %q is required", "date")
	}
	if strings.TrimSpace(summary) == "" {
		rep.add(CodeFieldRequired, SeverityError, 0, "front matter field %q is required", "summary")
	}

	if len(tags) == 0 {
		rep.add(CodeTagsEmpty, SeverityWarning, 0, "post has no tags")
		return
	}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			rep.add(CodeTagBlank, SeverityError, 0, "blank tag in tags list")
			continue
		}
		lower := strings.ToLower(trimmed)
		if seen[lower] {
			rep.add(CodeTagDuplicate, SeverityError, 0, "duplicate tag %q", trimmed)
		}
		seen[lower] = true
	}
}

// checkFences walks the body line by line tracking the currently open fence.
// Per CommonMark, a fence closes only on a run of the same character at least
// as long as the opener, with nothing but whitespace after it. Offset is the
// number of source lines preceding the body.
func checkFences(rep *Report, body []byte, offset int) {
	type fence struct {
		char   byte
		length int
		line   int
	}
	var open *fence

	lineNo := offset
	for _, line := range bytes.Split(body, []byte("\n")) {
		lineNo++
		char, length, infoRest := fenceRun(line)
		if length < 3 {
			continue
		}
		if open == nil {
			open = &fence{char: char, length: length, line: lineNo}
			continue
		}
		if char == open.char && length >= open.length && infoRest == "" {
			open = nil
		}
		// A shorter run or one carrying an info string is content of the
		// open fence, not a closer.
	}

	if open != nil {
		rep.add(CodeFenceUnterminated, SeverityError, open.line,
			"code fence opened here is never closed")
	}
}

// fenceRun parses a potential fence line: up to three leading spaces, then a
// run of backticks or tildes. It returns the fence character, the run length
// (0 when the line is not a fence), and any trailing info string.
func fenceRun(line []byte) (char byte, length int, infoRest string) {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	if i >= len(line) || (line[i] != '`' && line[i] != '~') {
		return 0, 0, ""
	}
	char = line[i]
	start := i
	for i < len(line) && line[i] == char {
		i++
	}
	return char, i - start, strings.TrimSpace(string(line[i:]))
}

func lineCount(b []byte) int {
	return bytes.Count(b, []byte("\n"))
}
