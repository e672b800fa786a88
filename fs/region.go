package fs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/rework"
)

// Interface compliance check.
var _ rework.Buffer = (*Region)(nil)

// Region is a line range of a file opened as a [rework.Buffer].
//
// The file is read once by [Open]. ApplyReplacement succeeds at most once and
// only if the file on disk still matches what was read.
type Region struct {
	path  string
	lines LineRange
	mode  os.FileMode

	original  []byte
	prefix    string
	selection string
	suffix    string

	mu      sync.Mutex
	applied bool
}

// Open reads path and selects lines from it.
func Open(path string, lines LineRange) (*Region, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open region: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open region: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open region: %w", err)
	}
	prefix, selection, suffix, err := split(string(data), lines)
	if err != nil {
		return nil, fmt.Errorf("open region %s: %w", path, err)
	}
	return &Region{
		path:      path,
		lines:     lines,
		mode:      info.Mode().Perm(),
		original:  data,
		prefix:    prefix,
		selection: selection,
		suffix:    suffix,
	}, nil
}

// Path returns the file path.
func (r *Region) Path() string { return r.path }

// Lines returns the selected line range.
func (r *Region) Lines() LineRange { return r.lines }

// Selection returns the selected lines without their final line break.
func (r *Region) Selection() string { return r.selection }

// ApplyReplacement writes the file with the selection replaced by text. The
// new content goes to a temporary file in the same directory which is then
// renamed over the original.
func (r *Region) ApplyReplacement(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.applied {
		return ErrAlreadyApplied
	}
	current, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("apply to %s: %w", r.path, err)
	}
	if !bytes.Equal(current, r.original) {
		return fmt.Errorf("apply to %s: %w", r.path, ErrModified)
	}
	if err := writeAtomic(r.path, []byte(r.prefix+text+r.suffix), r.mode); err != nil {
		return fmt.Errorf("apply to %s: %w", r.path, err)
	}
	r.applied = true
	return nil
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".rework-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// split cuts content into the text before the selected lines, the lines
// themselves without their last line break, and everything after.
func split(content string, lr LineRange) (prefix, selection, suffix string, err error) {
	lines := strings.SplitAfter(content, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	}
	n := len(lines)

	start, end := lr.Start, lr.End
	if lr.IsZero() {
		if n == 0 {
			return "", "", "", nil
		}
		start, end = 1, n
	}
	if end == 0 {
		end = n
	}
	if start < 1 || end < start || end > n {
		return "", "", "", fmt.Errorf("lines %s of a %d-line file: %w", lr, n, ErrLineRange)
	}

	prefix = strings.Join(lines[:start-1], "")
	body := strings.Join(lines[start-1:end], "")
	selection = body
	if s, ok := strings.CutSuffix(selection, "\n"); ok {
		selection = strings.TrimSuffix(s, "\r")
	}
	suffix = body[len(selection):] + strings.Join(lines[end:], "")
	return prefix, selection, suffix, nil
}
