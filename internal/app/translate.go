package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patrickprogramme/postscribe/internal/document"
	"github.com/patrickprogramme/postscribe/internal/fsutil"
	"github.com/patrickprogramme/postscribe/internal/textutil"
	"github.com/patrickprogramme/postscribe/internal/translate"
)

// TranslateOptions contient les drapeaux de la commande translate.
type TranslateOptions struct {
	Force    bool    // retraduire même les articles déjà en chinois
	DryRun   bool    // afficher le rendu au lieu d'écrire
	MinRatio float64 // seuil de ratio de caractères chinois (0 => config)
}

// Translate traduit les articles désignés (tous les fichiers .md du
// répertoire des articles si aucun slug). L'épuisement du quota arrête le
// run ; les autres échecs sont journalisés par article.
func (a *App) Translate(ctx context.Context, slugs []string, opts TranslateOptions) error {
	if opts.MinRatio <= 0 {
		opts.MinRatio = a.cfg.Translation.MinChineseRatio
	}

	paths, err := a.translateTargets(slugs)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		a.log.Info("aucun article à traduire", "répertoire", a.cfg.PostsDir)
		return nil
	}

	var failed int
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.translateOne(ctx, path, opts); err != nil {
			if errors.Is(err, translate.ErrQuotaExhausted) {
				// les articles déjà traduits restent sur disque
				return fmt.Errorf("translate %s: %w", path, err)
			}
			failed++
			a.log.Error("traduction échouée", "fichier", path, "err", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("translate: %d article(s) en échec", failed)
	}
	return nil
}

func (a *App) translateOne(ctx context.Context, path string, opts TranslateOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("lecture de %s: %w", path, err)
	}
	content := string(data)

	if ratio := textutil.ChineseRatio(content); ratio >= opts.MinRatio && !opts.Force {
		a.log.Info("article déjà en chinois, ignoré", "fichier", path, "ratio", fmt.Sprintf("%.2f", ratio))
		return nil
	}

	items := document.Decompose(content)

	// indices des éléments traduisibles encore sous le seuil
	var indices []int
	var texts []string
	for i, item := range items {
		if !item.Translatable() || strings.TrimSpace(item.Content) == "" {
			continue
		}
		if !opts.Force && textutil.ChineseRatio(item.Content) >= opts.MinRatio {
			continue
		}
		indices = append(indices, i)
		texts = append(texts, item.Content)
	}
	if len(indices) == 0 {
		a.log.Info("rien à traduire", "fichier", path)
		return nil
	}

	translated, err := a.svc.Translate(ctx, texts)
	if err != nil {
		return err
	}
	if len(translated) != len(texts) {
		return fmt.Errorf("service de traduction: %d réponses pour %d segments", len(translated), len(texts))
	}
	for n, i := range indices {
		items[i].Content = translated[n]
	}

	out := document.Serialize(items)
	if opts.DryRun {
		a.ui.PrintInfo(ctx, out)
		return nil
	}
	// un service no-op (ou des traductions identiques) ne justifie ni
	// sauvegarde ni réécriture
	if out == content {
		a.log.Info("contenu inchangé après traduction, fichier intact", "fichier", path)
		return nil
	}

	if backup, created, err := fsutil.BackupOnce(path); err != nil {
		return fmt.Errorf("sauvegarde de %s: %w", path, err)
	} else if created {
		a.log.Debug("sauvegarde créée", "fichier", backup)
	}
	if err := fsutil.WriteFileAtomic(path, []byte(out), filePerm); err != nil {
		return fmt.Errorf("écriture de %s: %w", path, err)
	}
	a.log.Info("article traduit", "fichier", path, "segments", len(indices))
	return nil
}

// translateTargets résout la liste des fichiers à traiter : les slugs
// explicites, ou tous les articles Markdown du répertoire configuré.
func (a *App) translateTargets(slugs []string) ([]string, error) {
	if len(slugs) > 0 {
		paths := make([]string, 0, len(slugs))
		for _, slug := range slugs {
			path := a.postPath(slug)
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("article introuvable: %s", path)
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	paths, err := filepath.Glob(filepath.Join(a.cfg.PostsDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("parcours de %s: %w", a.cfg.PostsDir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
