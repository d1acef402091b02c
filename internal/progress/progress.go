// Package progress draws a single-line progress bar on stderr while
// documents are converted or track rows are merged.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// maxStatus caps the status text (a file name or a track key) so the bar
// stays on one line.
const maxStatus = 32

// Bar counts finished steps out of a known total.
type Bar struct {
	Label   string
	Total   int
	Current int
	Width   int
	Enabled bool
	// Out defaults to os.Stderr.
	Out io.Writer

	mu sync.Mutex
}

// New creates a bar on stderr. It stays silent when stderr is not a
// terminal, when quiet is set (--json) or when CONTENTKIT_NO_PROGRESS=1.
func New(label string, total int, quiet bool) *Bar {
	return &Bar{
		Label:   label,
		Total:   total,
		Width:   30,
		Enabled: !quiet && enabled(),
		Out:     os.Stderr,
	}
}

// Step marks one more item as done.
func (b *Bar) Step(status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moveTo(b.Current+1, status)
}

// Update jumps to done items.
func (b *Bar) Update(done int, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.moveTo(done, status)
}

// Done replaces the bar with a summary line.
func (b *Bar) Done(summary string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Enabled {
		fmt.Fprintf(b.out(), "\r\033[K✓ %s\n", summary)
	}
}

func (b *Bar) moveTo(n int, status string) {
	b.Current = min(max(n, 0), b.Total)
	if b.Enabled {
		fmt.Fprint(b.out(), "\r\033[K"+b.line(status))
	}
}

func (b *Bar) line(status string) string {
	pct := 0
	filled := 0
	if b.Total > 0 {
		pct = b.Current * 100 / b.Total
		filled = b.Current * b.Width / b.Total
	}

	if r := []rune(status); len(r) > maxStatus {
		status = "…" + string(r[len(r)-maxStatus+1:])
	}

	return fmt.Sprintf("%s [%s%s] %3d%% %d/%d  %s",
		b.Label,
		strings.Repeat("=", filled), strings.Repeat(" ", b.Width-filled),
		pct, b.Current, b.Total, status)
}

func (b *Bar) out() io.Writer {
	if b.Out == nil {
		return os.Stderr
	}
	return b.Out
}

func enabled() bool {
	if os.Getenv("CONTENTKIT_NO_PROGRESS") == "1" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
