package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/patrickprogramme/postscribe/internal/captions"
	"github.com/patrickprogramme/postscribe/internal/clipboard"
	"github.com/patrickprogramme/postscribe/internal/document"
	"github.com/patrickprogramme/postscribe/internal/translate"
)

// SummaryPlaceholder marque un résumé encore à rédiger.
const SummaryPlaceholder = "這支影片的重點摘要待補充。"

const summaryClipboardPrompt = "請閱讀以下逐字稿，用繁體中文寫出這支影片的重點摘要（三到五句）：\n\n"

// resolveSummary détermine le bloc de résumé de l'article : le résumé déjà
// présent sur disque est conservé tel quel ; sinon on tente la génération
// (API puis presse-papiers selon la configuration), avec le marqueur
// SummaryPlaceholder en dernier recours.
func (a *App) resolveSummary(ctx context.Context, destPath string, segments []captions.Segment) (string, error) {
	// le marqueur n'est pas un vrai résumé : on retente la génération
	if existing := readExistingSummary(destPath); existing != "" && existing != SummaryPlaceholder {
		return existing, nil
	}
	if !a.cfg.Summary.Enabled {
		return SummaryPlaceholder, nil
	}

	transcript := collapseSegments(segments)

	// 1) génération via le service de traduction
	if a.svc != nil {
		generated, err := a.svc.Summarize(ctx, transcript)
		if err != nil {
			if errors.Is(err, translate.ErrQuotaExhausted) || errors.Is(err, context.Canceled) {
				return "", err
			}
			a.log.Warn("génération du résumé échouée", "err", err)
		}
		if generated = strings.TrimSpace(generated); generated != "" {
			return generated, nil
		}
	}

	// 2) flux manuel via le presse-papiers
	if a.cfg.Summary.Clipboard {
		if summary, err := a.summaryFromClipboard(ctx, transcript); err != nil {
			a.log.Warn("résumé via le presse-papiers abandonné", "err", err)
		} else if summary != "" {
			return summary, nil
		}
	}

	return SummaryPlaceholder, nil
}

// summaryFromClipboard copie l'invite de résumé dans le presse-papier puis
// attend que l'utilisateur y colle la réponse de son chat IA.
func (a *App) summaryFromClipboard(ctx context.Context, transcript string) (string, error) {
	prompt := summaryClipboardPrompt + transcript
	if err := clipboard.WriteAll(prompt); err != nil {
		return "", fmt.Errorf("copie de l'invite: %w", err)
	}

	a.ui.PrintInfo(ctx, "L'invite de résumé est dans le presse-papier.")
	a.ui.PrintInfo(ctx, "Collez-la dans votre chat IA puis copiez la réponse.")

	timeout := time.Duration(a.cfg.Summary.ClipboardTimeoutSec) * time.Second
	summary, err := a.ui.WaitForClipboardChange(ctx, prompt, 500*time.Millisecond, timeout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

// readExistingSummary retourne le résumé de l'article déjà sur disque,
// ou "" si le fichier n'existe pas ou ne contient pas de bloc de résumé.
func readExistingSummary(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	summary, ok := document.ExtractSummary(string(data))
	if !ok {
		return ""
	}
	return strings.TrimSpace(summary)
}

// collapseSegments aplatit les segments en un texte continu pour l'invite.
func collapseSegments(segments []captions.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Speaker != "" {
			parts = append(parts, seg.Speaker+": "+seg.Text)
			continue
		}
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, "\n")
}
