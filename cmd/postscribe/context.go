package main

import (
	"os"
	"strings"
	"sync"

	"github.com/patrickprogramme/postscribe/internal/app"
	"github.com/patrickprogramme/postscribe/internal/config"
	"github.com/patrickprogramme/postscribe/internal/logging"
	"github.com/patrickprogramme/postscribe/internal/posts"
	"github.com/patrickprogramme/postscribe/internal/translate"
	"github.com/patrickprogramme/postscribe/internal/ui"
	"github.com/patrickprogramme/postscribe/internal/yt"
)

// commandContext partage la configuration entre les sous-commandes,
// chargée une seule fois.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// buildApp assemble l'application : config, journal, registre, yt-dlp,
// service de traduction (OpenAI si une clé est résolue, no-op sinon).
func (c *commandContext) buildApp(apiKeyFlag string) (*app.App, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	log := logging.New(os.Stderr, cfg.LogLevel)

	reg, err := posts.Load(cfg.PostsJSON)
	if err != nil {
		return nil, err
	}

	ytClient := yt.NewYtDlp(cfg.YtDlp.Name, cfg.YtDlp.ResolvedPath, yt.NewOptions(cfg.YtDlp.ShowWarnings))

	var svc translate.Service = translate.Noop{}
	if cfg.Translation.Enabled {
		if key := cfg.ResolveAPIKey(apiKeyFlag); key != "" {
			svc = translate.NewClient(translate.ClientConfig{
				APIKey:     key,
				Model:      cfg.Translation.Model,
				BatchSize:  cfg.Translation.BatchSize,
				RetryLimit: cfg.Translation.RetryLimit,
				Logger:     log,
			})
		} else {
			log.Debug("aucune clé API résolue, service de traduction no-op")
		}
	}

	return app.New(cfg, log, reg, ytClient, svc, ui.NewTerminal()), nil
}
