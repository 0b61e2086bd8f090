// Package translate définit la frontière de traduction/résumé du pipeline :
// un contrat batch-in/batch-out, une implémentation OpenAI et une
// implémentation no-op. Le cœur du pipeline ne connaît que l'interface.
package translate

import (
	"context"
	"errors"
)

// ErrQuotaExhausted : quota du service épuisé. Non-retryable — le run entier
// doit s'arrêter pour ne pas écraser du contenu correct avec du contenu
// dégradé. À distinguer d'un échec de batch, qui se rabat sur l'original.
var ErrQuotaExhausted = errors.New("quota du service de traduction épuisé")

// Service est le contrat de la frontière de traduction.
//
// Translate doit préserver l'ordre et le nombre d'éléments : un élément dont
// la traduction a échoué revient tel quel (best-effort). Summarize produit un
// résumé du texte fourni ; chaîne vide = pas de résumé disponible.
type Service interface {
	Translate(ctx context.Context, batch []string) ([]string, error)
	Summarize(ctx context.Context, text string) (string, error)
}

// Noop est l'implémentation par défaut quand la traduction est désactivée :
// tout revient inchangé. Évite de forker le pipeline en deux variantes.
type Noop struct{}

func (Noop) Translate(_ context.Context, batch []string) ([]string, error) {
	out := make([]string, len(batch))
	copy(out, batch)
	return out, nil
}

func (Noop) Summarize(_ context.Context, _ string) (string, error) {
	return "", nil
}
