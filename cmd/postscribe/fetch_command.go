package main

import (
	"github.com/spf13/cobra"

	"github.com/patrickprogramme/postscribe/internal/app"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var skipDownload, force, dryRun bool
	var apiKey string

	cmd := &cobra.Command{
		Use:   "fetch [slug...]",
		Short: "Télécharge les captions et génère les transcripts Markdown",
		Long: "Télécharge les captions auto-générées des vidéos du registre, les " +
			"normalise en transcript segmenté par locuteur et écrit un article " +
			"Markdown par slug. Sans argument, tout le registre est traité.",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := ctx.buildApp(apiKey)
			if err != nil {
				return err
			}
			return application.Fetch(cmd.Context(), args, app.FetchOptions{
				SkipDownload: skipDownload,
				Force:        force,
				DryRun:       dryRun,
			})
		},
	}

	cmd.Flags().BoolVar(&skipDownload, "skip-download", false, "réutiliser les captions déjà en cache sans lancer yt-dlp")
	cmd.Flags().BoolVar(&force, "force", false, "régénérer les articles déjà présents")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "afficher le rendu sans écrire sur disque")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "clé API OpenAI (sinon config puis OPENAI_API_KEY)")

	return cmd
}
