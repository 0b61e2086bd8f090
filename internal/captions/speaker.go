package captions

import (
	"regexp"
	"strings"
)

var (
	// nom à initiale majuscule (max ~60 caractères), tiret optionnel, deux-points.
	// Le quantifieur est non-glouton pour ne pas avaler le tiret. Le corps du
	// nom accepte les lettres Unicode (noms accentués), pas seulement l'ASCII.
	speakerPattern = regexp.MustCompile(`^([A-Z][\p{L}\p{N}_ .'-]{0,60}?)(?:\s*[-–—])?\s*:\s*(.*)`)

	// annotation entre crochets en tête de cue ("[MUSIC]: soft piano")
	bracketPattern = regexp.MustCompile(`^(\[[A-Za-z ]{1,60}\])\s*:\s*(.*)`)
)

// annotations réservées : jamais des locuteurs
var nonSpeakerNames = map[string]struct{}{
	"[MUSIC]":    {},
	"[LAUGHTER]": {},
}

// SplitSpeaker détecte un préfixe "Nom:" en tête du texte d'un cue.
//
// Retourne (speaker, reste). speaker == "" signifie : pas d'attribution, le
// texte entier est du contenu parlé. Une annotation réservée ("[MUSIC]:",
// "[LAUGHTER]:") n'est pas un locuteur : on la retire et on garde le reste.
// Heuristique mono-ligne et gloutonne, pas de parsing multi-lignes.
func SplitSpeaker(text string) (string, string) {
	if m := bracketPattern.FindStringSubmatch(text); m != nil {
		if _, reserved := nonSpeakerNames[strings.ToUpper(m[1])]; reserved {
			return "", strings.TrimSpace(m[2])
		}
		// crochets non réservés : on ne les traite pas comme un locuteur
		return "", text
	}

	m := speakerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", text
	}
	return tidySpeakerName(m[1]), strings.TrimSpace(m[2])
}

// tidySpeakerName normalise les espaces internes du nom capturé.
func tidySpeakerName(name string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(name, " "))
}
