// Package fs provides a file-backed [rework.Buffer]: a line range of a file
// is the selection, and an approved replacement is written back atomically.
package fs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrModified indicates the file changed on disk after it was read.
	ErrModified = errors.New("file modified since it was read")

	// ErrAlreadyApplied indicates a second replacement on the same region.
	ErrAlreadyApplied = errors.New("replacement already applied")

	// ErrLineRange indicates a malformed or out-of-bounds line range.
	ErrLineRange = errors.New("invalid line range")
)

// LineRange selects lines Start through End of a file, 1-based and
// inclusive. The zero value selects the whole file. End == 0 with a
// non-zero Start runs to the last line.
type LineRange struct {
	Start int
	End   int
}

// IsZero reports whether r selects the whole file.
func (r LineRange) IsZero() bool { return r.Start == 0 && r.End == 0 }

func (r LineRange) String() string {
	switch {
	case r.IsZero():
		return "all"
	case r.End == 0:
		return fmt.Sprintf("%d:", r.Start)
	default:
		return fmt.Sprintf("%d:%d", r.Start, r.End)
	}
}

// ParseLineRange parses "A:B", "A:" or "A". An empty string selects the
// whole file.
func ParseLineRange(s string) (LineRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LineRange{}, nil
	}
	startStr, endStr, hasColon := strings.Cut(s, ":")
	start, err := strconv.Atoi(startStr)
	if err != nil || start < 1 {
		return LineRange{}, fmt.Errorf("%q: start must be a positive line number: %w", s, ErrLineRange)
	}
	if !hasColon {
		return LineRange{Start: start, End: start}, nil
	}
	if endStr == "" {
		return LineRange{Start: start}, nil
	}
	end, err := strconv.Atoi(endStr)
	if err != nil || end < start {
		return LineRange{}, fmt.Errorf("%q: end must be a line number not before start: %w", s, ErrLineRange)
	}
	return LineRange{Start: start, End: end}, nil
}
