package io

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

// ReadPattern decodes a pattern from r. Leading and trailing blank lines are
// dropped; blank lines inside the pattern are kept as empty rows.
func ReadPattern(r io.Reader) (*pattern.Pattern, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	var rows []string
	for sc.Scan() {
		rows = append(rows, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read pattern")
	}
	for len(rows) > 0 && strings.TrimSpace(rows[0]) == "" {
		rows = rows[1:]
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}

	p, err := pattern.New(rows...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "pattern")
	}
	return p, nil
}

// ImportPattern reads the pattern file at path.
func ImportPattern(path string) (*pattern.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadPattern(f)
}
