// Package app orchestre les deux pipelines de l'outil : la récupération des
// captions (fetch) et la traduction des articles existants (translate).
package app

import (
	"log/slog"
	"path/filepath"

	"github.com/patrickprogramme/postscribe/internal/config"
	"github.com/patrickprogramme/postscribe/internal/posts"
	"github.com/patrickprogramme/postscribe/internal/translate"
	"github.com/patrickprogramme/postscribe/internal/ui"
	"github.com/patrickprogramme/postscribe/internal/yt"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// App orchestre les différentes dépendances (registre, yt-dlp, traduction, UI).
// Pour les tests, on construit App en injectant des implémentations mock.
type App struct {
	cfg *config.Config
	log *slog.Logger
	reg *posts.Registry
	yt  yt.Interface
	svc translate.Service
	ui  ui.Interface
}

func New(cfg *config.Config, log *slog.Logger, reg *posts.Registry, ytClient yt.Interface, svc translate.Service, uiClient ui.Interface) *App {
	return &App{
		cfg: cfg,
		log: log,
		reg: reg,
		yt:  ytClient,
		svc: svc,
		ui:  uiClient,
	}
}

// postPath retourne le chemin du fichier Markdown d'un article.
func (a *App) postPath(slug string) string {
	return filepath.Join(a.cfg.PostsDir, slug+".md")
}

// resolveSlugs retourne les slugs demandés, ou tout le registre si aucun.
func (a *App) resolveSlugs(slugs []string) []string {
	if len(slugs) > 0 {
		return slugs
	}
	return a.reg.Slugs()
}
