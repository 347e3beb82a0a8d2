package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"contentapi/internal/lint"
)

// lint checks MDX/markdown documents without a running server: front matter
// must decode, required fields must be present, and every code fence must be
// closed. One JSON object per issue is written to stdout; the exit code is 1
// when any file carries an error-severity issue.
func main() {
	quiet := flag.Bool("q", false, "suppress warnings, print errors only")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] file.mdx [file.mdx ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	failed := false

	for _, path := range flag.Args() {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			failed = true
			continue
		}

		rep := lint.Check(src)
		for _, issue := range rep.Issues {
			if *quiet && issue.Severity != lint.SeverityError {
				continue
			}
			_ = enc.Encode(struct {
				File string `json:"file"`
				lint.Issue
			}{File: path, Issue: issue})
		}
		if rep.HasErrors() {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
