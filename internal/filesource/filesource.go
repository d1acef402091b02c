// Package filesource chooses the Word document the convert command works on,
// either from the command line or by asking the user.
package filesource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/klytics/contentkit/internal/errors"
)

// Source yields the path of the document to process. It returns
// errors.ErrNoFileSelected when the user declined to pick one.
type Source interface {
	Select(ctx context.Context) (string, error)
}

// Static is a path given up front, typically a command-line argument.
type Static string

// Select returns the path. An empty Static selects nothing.
func (s Static) Select(ctx context.Context) (string, error) {
	if s == "" {
		return "", errors.ErrNoFileSelected
	}
	return string(s), nil
}

// Prompt asks for a document on the terminal, listing the .docx files in Dir
// and completing their names on Tab. The answer may be a listed number, a
// name relative to Dir, or any other path. An empty answer, Ctrl+C or Ctrl+D
// selects nothing.
type Prompt struct {
	Dir string

	// Stdin and Stdout default to the process streams.
	Stdin  io.ReadCloser
	Stdout io.Writer
}

// Select runs the prompt.
func (p *Prompt) Select(ctx context.Context) (string, error) {
	files := Candidates(p.Dir)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "docx> ",
		AutoComplete:    &completer{files: files},
		InterruptPrompt: "^C",
		Stdin:           p.Stdin,
		Stdout:          p.Stdout,
	})
	if err != nil {
		return "", fmt.Errorf("could not start prompt: %w", err)
	}
	defer rl.Close()

	stop := context.AfterFunc(ctx, func() { rl.Close() })
	defer stop()

	out := rl.Stdout()
	fmt.Fprintln(out, "Please select the Word document to process...")
	for i, f := range files {
		fmt.Fprintf(out, "  %2d  %s\n", i+1, f)
	}

	line, err := rl.Readline()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", errors.ErrNoFileSelected
		}
		return "", fmt.Errorf("could not read selection: %w", err)
	}

	return Resolve(p.Dir, files, line)
}

// Candidates lists the .docx files directly inside dir, sorted by name.
// Word lock files (~$name.docx) are left out. A missing directory has no
// candidates.
func Candidates(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !IsDocx(name) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files
}

// IsDocx reports whether name is a Word document and not a lock file.
func IsDocx(name string) bool {
	base := filepath.Base(name)
	return strings.EqualFold(filepath.Ext(base), ".docx") && !strings.HasPrefix(base, "~$")
}

// Resolve maps an answer typed at the prompt to a path.
func Resolve(dir string, files []string, answer string) (string, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.ErrNoFileSelected
	}

	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(files) {
		return filepath.Join(dir, files[n-1]), nil
	}

	if _, err := os.Stat(answer); err == nil {
		return answer, nil
	}
	if !filepath.IsAbs(answer) {
		inDir := filepath.Join(dir, answer)
		if _, err := os.Stat(inDir); err == nil {
			return inDir, nil
		}
	}

	return "", errors.NewNotFoundError("document", answer, files...)
}

// completer completes the word under the cursor against the candidate names.
type completer struct {
	files []string
}

// Do implements readline.AutoCompleter.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	var out [][]rune
	for _, f := range c.files {
		if strings.HasPrefix(f, prefix) {
			out = append(out, []rune(f[len(prefix):]))
		}
	}
	return out, len([]rune(prefix))
}
