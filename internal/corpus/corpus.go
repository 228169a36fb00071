package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Source yields corpus text one line at a time. Implementations must be
// repeatable: every call to EachLine replays the corpus from the start.
type Source interface {
	// EachLine invokes fn for each line in order. Iteration stops at the
	// first error returned by fn, which is propagated unchanged.
	EachLine(fn func(line string) error) error
	// String describes the origin of the corpus for logs and summaries.
	String() string
}

// maxLineBytes bounds a single corpus line. Prose corpora occasionally arrive
// as one enormous unbroken line, which would overflow bufio's default token size.
const maxLineBytes = 4 * 1024 * 1024

// File reads a newline-delimited corpus from disk. The file is reopened on
// every EachLine call, so a single File can feed repeated passes.
type File struct {
	Path string
}

// NewFile returns a file-backed corpus source for path.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) EachLine(fn func(line string) error) error {
	handle, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer handle.Close()

	scanner := bufio.NewScanner(handle)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read corpus %s: %w", f.Path, err)
	}
	return nil
}

func (f *File) String() string {
	return f.Path
}

// Lines serves an in-memory corpus. Used by tests and small fixtures.
type Lines []string

func (l Lines) EachLine(fn func(line string) error) error {
	for _, line := range l {
		if err := fn(line); err != nil {
			return err
		}
	}
	return nil
}

func (l Lines) String() string {
	return fmt.Sprintf("inline corpus (%d lines)", len(l))
}

// EachWord tokenizes every line of src on whitespace and invokes fn per
// token. Tokens are passed through verbatim, with no case folding or
// punctuation stripping.
func EachWord(src Source, fn func(word string) error) error {
	return src.EachLine(func(line string) error {
		for _, word := range strings.Fields(line) {
			if err := fn(word); err != nil {
				return err
			}
		}
		return nil
	})
}
