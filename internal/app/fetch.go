package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrickprogramme/postscribe/internal/captions"
	"github.com/patrickprogramme/postscribe/internal/document"
	"github.com/patrickprogramme/postscribe/internal/fsutil"
	"github.com/patrickprogramme/postscribe/internal/translate"
	"github.com/patrickprogramme/postscribe/internal/yt"
)

// FetchOptions contient les drapeaux de la commande fetch.
type FetchOptions struct {
	SkipDownload bool // réutiliser le cache sans lancer yt-dlp
	Force        bool // régénérer même si l'article existe déjà
	DryRun       bool // afficher le rendu au lieu d'écrire
}

// Fetch exécute le pipeline de récupération pour les slugs donnés (tout le
// registre si la liste est vide). Les échecs par article sont journalisés et
// n'arrêtent pas le run ; l'épuisement du quota de traduction, si.
func (a *App) Fetch(ctx context.Context, slugs []string, opts FetchOptions) error {
	if !opts.SkipDownload {
		if err := a.yt.CheckBinary(); err != nil {
			return fmt.Errorf("yt-dlp indisponible: %w", err)
		}
		if version, err := a.yt.GetVersion(ctx); err == nil {
			a.log.Debug("yt-dlp détecté", "version", version)
		}
	}

	var failed int
	for _, slug := range a.resolveSlugs(slugs) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.fetchOne(ctx, slug, opts); err != nil {
			if errors.Is(err, translate.ErrQuotaExhausted) {
				return fmt.Errorf("fetch %s: %w", slug, err)
			}
			failed++
			a.log.Error("fetch échoué", "slug", slug, "err", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("fetch: %d article(s) en échec", failed)
	}
	return nil
}

func (a *App) fetchOne(ctx context.Context, slug string, opts FetchOptions) error {
	post, ok := a.reg.Get(slug)
	if !ok {
		return fmt.Errorf("slug inconnu dans le registre: %s", slug)
	}

	url := post.VideoURL()
	if url == "" {
		a.log.Warn("article sans URL vidéo, ignoré", "slug", slug)
		return nil
	}

	// même garde avec ou sans dry-run : un aperçu ne doit pas télécharger
	// ce qu'un vrai run sauterait
	destPath := a.postPath(slug)
	if !opts.Force {
		if _, err := os.Stat(destPath); err == nil {
			a.log.Info("article déjà présent, ignoré (utilisez --force)", "slug", slug)
			return nil
		}
	}

	captionPath, err := a.locateCaptions(ctx, slug, url, opts)
	if err != nil {
		return err
	}
	if captionPath == "" {
		// aucune piste : l'article est sauté, pas le run
		a.log.Warn("aucune piste de captions, article ignoré", "slug", slug)
		return nil
	}

	file, err := os.Open(captionPath)
	if err != nil {
		return fmt.Errorf("ouverture des captions %s: %w", captionPath, err)
	}
	cues, err := captions.ParseVTT(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("analyse des captions %s: %w", captionPath, err)
	}

	segments := captions.CuesToSegments(cues)
	if len(segments) == 0 {
		a.log.Warn("aucun segment exploitable, article ignoré", "slug", slug)
		return nil
	}
	a.log.Info("transcript segmenté", "slug", slug, "cues", len(cues), "segments", len(segments))

	summary, err := a.resolveSummary(ctx, destPath, segments)
	if err != nil {
		return err
	}

	items := document.BuildItems(summary, segments, post.PrimarySpeaker(), url)
	content := document.Serialize(items)

	if opts.DryRun {
		a.ui.PrintInfo(ctx, content)
		return nil
	}

	if err := os.MkdirAll(a.cfg.PostsDir, dirPerm); err != nil {
		return fmt.Errorf("création du répertoire des articles: %w", err)
	}
	if backup, created, err := fsutil.BackupOnce(destPath); err != nil {
		return fmt.Errorf("sauvegarde de %s: %w", destPath, err)
	} else if created {
		a.log.Debug("sauvegarde créée", "fichier", backup)
	}
	if err := fsutil.WriteFileAtomic(destPath, []byte(content), filePerm); err != nil {
		return fmt.Errorf("écriture de %s: %w", destPath, err)
	}
	a.log.Info("article écrit", "slug", slug, "fichier", destPath)
	return nil
}

// locateCaptions retourne le chemin du fichier VTT pour le slug, en le
// téléchargeant si nécessaire. Retourne "" si aucune piste n'existe (une
// nouvelle tentative avec les langues de repli a déjà eu lieu).
func (a *App) locateCaptions(ctx context.Context, slug, url string, opts FetchOptions) (string, error) {
	cacheDir := a.captionCacheDir(slug)

	if opts.SkipDownload {
		if path, ok := yt.FindCaptionFile(cacheDir, a.cfg.YtDlp.Lang); ok {
			return path, nil
		}
		if a.cfg.YtDlp.FallbackLang != "" {
			if path, ok := yt.FindCaptionFile(cacheDir, a.cfg.YtDlp.FallbackLang); ok {
				return path, nil
			}
		}
		return "", nil
	}

	path, err := a.yt.DownloadCaptions(ctx, url, cacheDir, a.cfg.YtDlp.Lang)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, yt.ErrNoCaption) {
		return "", fmt.Errorf("téléchargement des captions: %w", err)
	}

	// une seule relance avec les langues de repli
	if a.cfg.YtDlp.FallbackLang == "" {
		return "", nil
	}
	a.log.Debug("relance avec les langues de repli", "slug", slug, "langues", a.cfg.YtDlp.FallbackLang)
	path, err = a.yt.DownloadCaptions(ctx, url, cacheDir, a.cfg.YtDlp.FallbackLang)
	if err == nil {
		return path, nil
	}
	if errors.Is(err, yt.ErrNoCaption) {
		return "", nil
	}
	return "", fmt.Errorf("téléchargement des captions (repli): %w", err)
}

func (a *App) captionCacheDir(slug string) string {
	return filepath.Join(a.cfg.CacheDir, fsutil.SanitizeFilename(slug))
}
