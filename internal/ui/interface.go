package ui

import (
	"context"
	"time"
)

type Interface interface {
	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)

	// WaitForClipboardChange bloque jusqu'à ce que le presse-papier diffère
	// du contenu initial, ou jusqu'au timeout/annulation du contexte.
	WaitForClipboardChange(ctx context.Context, initial string, interval time.Duration, timeout time.Duration) (string, error)
}
