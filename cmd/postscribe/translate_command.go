package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/postscribe/internal/app"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var force, dryRun bool
	var minRatio float64
	var apiKey string

	cmd := &cobra.Command{
		Use:   "translate [slug...]",
		Short: "Traduit les articles anglais en chinois traditionnel",
		Long: "Parcourt les articles Markdown, saute ceux dont le ratio de " +
			"caractères chinois dépasse le seuil, traduit les autres par lots " +
			"et réécrit le fichier (l'original est sauvegardé en .bak).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// sans clé le service serait no-op : on refuse plutôt que de
			// réécrire les articles à l'identique
			if cfg.Translation.Enabled && cfg.ResolveAPIKey(apiKey) == "" {
				return errors.New("aucune clé API résolue (--api-key, translation.api_key ou OPENAI_API_KEY)")
			}
			application, err := ctx.buildApp(apiKey)
			if err != nil {
				return err
			}
			return application.Translate(cmd.Context(), args, app.TranslateOptions{
				Force:    force,
				DryRun:   dryRun,
				MinRatio: minRatio,
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "retraduire même les segments déjà en chinois")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "afficher le rendu sans écrire sur disque")
	cmd.Flags().Float64Var(&minRatio, "min-chinese-ratio", 0, "seuil de ratio de caractères chinois (défaut : config)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "clé API OpenAI (sinon config puis OPENAI_API_KEY)")

	return cmd
}
