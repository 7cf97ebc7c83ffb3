package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// staleError reports a binding that differs from what its spec renders.
type staleError struct {
	path string
	diff string
}

func (e *staleError) Error() string {
	return fmt.Sprintf("%s is out of date; rerun go generate\n%s", e.path, strings.TrimSuffix(e.diff, "\n"))
}

// checkFresh compares want with the file at path without writing anything.
// A missing file counts as stale.
func checkFresh(path string, want []byte) error {
	have, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &staleError{path: path, diff: lineDiff("", string(want))}
		}
		return err
	}
	if bytes.Equal(have, want) {
		return nil
	}
	return &staleError{path: path, diff: lineDiff(string(have), string(want))}
}

// lineDiff renders the changed lines only, prefixed with - and +.
func lineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
