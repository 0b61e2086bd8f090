package yt

import "context"

// Interface est l'abstraction utilisée par le pipeline. Elle facilite le test
// en autorisant une implémentation factice.
type Interface interface {
	CheckBinary() error
	GetVersion(ctx context.Context) (string, error)

	// DownloadCaptions télécharge les captions auto de la vidéo dans destDir
	// pour la langue demandée et retourne le chemin du fichier .vtt trouvé.
	// Retourne ErrNoCaption si yt-dlp n'a produit aucune piste.
	DownloadCaptions(ctx context.Context, url, destDir, lang string) (string, error)
}
