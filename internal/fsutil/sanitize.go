package fsutil

import (
	"regexp"
	"strings"
)

// limite de longueur du nom produit
const maxNameLen = 120

// caractères interdits dans les noms de fichiers (\x00-\x1F : contrôle)
var invalidFileRunes = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename nettoie une chaîne pour en faire un nom de fichier ou de
// répertoire sûr : caractères interdits remplacés par "-", espaces réduits,
// points terminaux supprimés, longueur bornée. Vide -> "untitled".
func SanitizeFilename(name string) string {
	clean := invalidFileRunes.ReplaceAllString(name, "-")
	clean = multiSpace.ReplaceAllString(strings.TrimSpace(clean), " ")
	clean = strings.TrimRight(clean, ".")
	if clean == "" {
		return "untitled"
	}
	if len(clean) > maxNameLen {
		clean = clean[:maxNameLen]
	}
	return clean
}
