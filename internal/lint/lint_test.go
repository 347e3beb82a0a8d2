package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `---
title: 'Throttle function calls'
date: '2021-03-14'
tags: ['react', 'hooks']
draft: false
summary: Building a throttling hook.
---

Intro text.

` + "```jsx\nconst t = useThrottle(fn)\n```\n"

func codes(rep Report) []string {
	out := make([]string, 0, len(rep.Issues))
	for _, is := range rep.Issues {
		out = append(out, is.Code)
	}
	return out
}

func TestCheck_ValidDocument(t *testing.T) {
	rep := Check([]byte(validDoc))
	assert.Empty(t, rep.Issues)
	assert.NoError(t, rep.Err())
	assert.False(t, rep.HasErrors())
}

func TestCheck_FrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode string
	}{
		{
			name:     "missing block",
			src:      "# heading only\n",
			wantCode: CodeFrontMatterMissing,
		},
		{
			name:     "unterminated block",
			src:      "---\ntitle: t\nno closing line\n",
			wantCode: CodeFrontMatterUnterminated,
		},
		{
			name:     "invalid yaml",
			src:      "---\ntitle: [broken\n---\nbody\n",
			wantCode: CodeFrontMatterInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Check([]byte(tt.src))
			assert.Contains(t, codes(rep), tt.wantCode)
			assert.True(t, rep.HasErrors())
		})
	}
}

func TestCheck_RequiredFields(t *testing.T) {
	src := "---\ndate: '2021-03-14'\ntags: ['a']\n---\nbody\n"
	rep := Check([]byte(src))

	// title and summary both missing; date present
	got := codes(rep)
	assert.Equal(t, []string{CodeFieldRequired, CodeFieldRequired}, got)
	assert.Contains(t, rep.Issues[0].Message, "title")
	assert.Contains(t, rep.Issues[1].Message, "summary")
}

func TestCheck_Tags(t *testing.T) {
	t.Run("empty tags is a warning only", func(t *testing.T) {
		src := "---\ntitle: t\ndate: '2021-03-14'\nsummary: s\n---\nbody\n"
		rep := Check([]byte(src))
		require.Len(t, rep.Issues, 1)
		assert.Equal(t, CodeTagsEmpty, rep.Issues[0].Code)
		assert.Equal(t, SeverityWarning, rep.Issues[0].Severity)
		assert.NoError(t, rep.Err())
	})

	t.Run("blank tag", func(t *testing.T) {
		src := "---\ntitle: t\ndate: '2021-03-14'\nsummary: s\ntags: ['react', '  ']\n---\nbody\n"
		rep := Check([]byte(src))
		assert.Contains(t, codes(rep), CodeTagBlank)
		assert.True(t, rep.HasErrors())
	})

	t.Run("duplicate tag case-insensitive", func(t *testing.T) {
		src := "---\ntitle: t\ndate: '2021-03-14'\nsummary: s\ntags: ['React', 'react']\n---\nbody\n"
		rep := Check([]byte(src))
		assert.Contains(t, codes(rep), CodeTagDuplicate)
	})
}

func TestCheck_Fences(t *testing.T) {
	head := "---\ntitle: t\ndate: '2021-03-14'\nsummary: s\ntags: ['a']\n---\n"

	t.Run("unterminated fence reports opening line", func(t *testing.T) {
		// head is 6 lines; the fence opens on line 8 of the document.
		src := head + "text\n```js\nconst a = 1\n"
		rep := Check([]byte(src))
		require.Len(t, rep.Issues, 1)
		assert.Equal(t, CodeFenceUnterminated, rep.Issues[0].Code)
		assert.Equal(t, 8, rep.Issues[0].Line)
	})

	t.Run("closer must be at least as long as opener", func(t *testing.T) {
		src := head + "````\ncontent with ``` inside\n````\n"
		rep := Check([]byte(src))
		assert.Empty(t, rep.Issues)
	})

	t.Run("shorter run does not close", func(t *testing.T) {
		src := head + "````\n```\nstill inside\n"
		rep := Check([]byte(src))
		require.Len(t, rep.Issues, 1)
		assert.Equal(t, CodeFenceUnterminated, rep.Issues[0].Code)
	})

	t.Run("tilde fences", func(t *testing.T) {
		src := head + "~~~python\nprint(1)\n~~~\n"
		rep := Check([]byte(src))
		assert.Empty(t, rep.Issues)
	})

	t.Run("mismatched fence characters do not close", func(t *testing.T) {
		src := head + "```\n~~~\n"
		rep := Check([]byte(src))
		assert.Contains(t, codes(rep), CodeFenceUnterminated)
	})

	t.Run("fences checked even without front matter", func(t *testing.T) {
		rep := Check([]byte("```go\nfunc main() {}\n"))
		got := codes(rep)
		assert.Contains(t, got, CodeFrontMatterMissing)
		assert.Contains(t, got, CodeFenceUnterminated)
	})
}
