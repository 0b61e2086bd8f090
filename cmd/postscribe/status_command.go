package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/postscribe/internal/posts"
	"github.com/patrickprogramme/postscribe/internal/textutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Affiche l'état des articles du registre",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := posts.Load(cfg.PostsJSON)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, reg.Len())
			for _, slug := range reg.Slugs() {
				post, _ := reg.Get(slug)

				present := "non"
				ratio := "-"
				if data, err := os.ReadFile(filepath.Join(cfg.PostsDir, slug+".md")); err == nil {
					present = "oui"
					ratio = fmt.Sprintf("%.2f", textutil.ChineseRatio(string(data)))
				}
				rows = append(rows, []string{slug, post.Title, present, ratio})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Slug", "Titre", "Article", "Ratio zh"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	return cmd
}
