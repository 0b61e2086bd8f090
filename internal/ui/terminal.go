package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/patrickprogramme/postscribe/internal/clipboard"
)

type terminalUI struct {
	color bool
}

func NewTerminal() Interface {
	return &terminalUI{color: isatty.IsTerminal(os.Stderr.Fd())}
}

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Println(s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	if t.color {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", s)
		return
	}
	fmt.Fprintln(os.Stderr, s)
}

// WaitForClipboardChange poll le presse-papier jusqu'à ce que son contenu
// diffère de `initial` et soit non vide, ou jusqu'au timeout/context done.
// interval : durée entre lectures (ex: 500*time.Millisecond).
// timeout : 0 => attendre indéfiniment (ou utiliser ctx pour annulation).
func (t *terminalUI) WaitForClipboardChange(ctx context.Context, initial string, interval time.Duration, timeout time.Duration) (string, error) {
	normalize := func(s string) string {
		s = strings.TrimPrefix(s, "\uFEFF")
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.TrimSpace(s)
	}
	initial = normalize(initial)

	// laisse l'OS opérer le collage si on vient d'écrire le clipboard
	time.Sleep(150 * time.Millisecond)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = time.After(timeout)
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			current, err := clipboard.ReadAll()
			if err != nil {
				continue
			}
			current = normalize(current)
			if current != "" && current != initial {
				return current, nil
			}
		case <-deadline:
			return "", fmt.Errorf("timeout waiting clipboard change after %v", timeout)
		}
	}
}
