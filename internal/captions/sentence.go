package captions

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeSentence prépare le texte parlé d'un cue avant fusion :
// retire une puce "- " en tête puis réduit les phrases dupliquées adjacentes.
func NormalizeSentence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "- ")
	text = strings.TrimSpace(text)
	return collapseRepetitions(text)
}

// collapseRepetitions réduit les phrases consécutives identiques
// (insensible à la casse). Les captions auto répètent fréquemment la même
// phrase pendant que le locuteur continue ; on découpe sur les fins de
// phrase et on écarte les doublons adjacents pour garder un transcript lisible.
func collapseRepetitions(text string) string {
	if text == "" {
		return text
	}
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return text
	}
	var (
		deduped  []string
		previous string
	)
	for _, sentence := range sentences {
		stripped := strings.TrimSpace(sentence)
		if stripped == "" {
			continue
		}
		normalized := strings.ToLower(stripped)
		if normalized == previous {
			continue
		}
		deduped = append(deduped, stripped)
		previous = normalized
	}
	if len(deduped) == 0 {
		return text
	}
	return strings.Join(deduped, " ")
}

// splitSentences découpe après un terminator (. ! ?) suivi d'un espace.
// Scan manuel de runes : RE2 n'a pas de lookbehind, et on veut exactement
// "couper après le dernier terminator avant l'espace" (les "..." restent
// attachés à leur phrase, "2.6 meters" n'est pas coupé).
func splitSentences(text string) []string {
	var (
		out []string
		sb  strings.Builder
	)
	idx := 0
	for idx < len(text) {
		r, size := utf8.DecodeRuneInString(text[idx:])
		if r == utf8.RuneError && size == 1 {
			// octet invalide : drop
			idx++
			continue
		}
		sb.WriteRune(r)
		idx += size

		if !isTerminatorRune(r) {
			continue
		}
		// terminator : coupe seulement si la rune suivante est un espace
		// (et qu'elle n'est pas elle-même un terminator, cas "...")
		next, nsize := utf8.DecodeRuneInString(text[idx:])
		if nsize == 0 || !unicode.IsSpace(next) {
			continue
		}
		out = append(out, sb.String())
		sb.Reset()
		// consommer les espaces de séparation
		for idx < len(text) {
			r2, s2 := utf8.DecodeRuneInString(text[idx:])
			if !unicode.IsSpace(r2) {
				break
			}
			idx += s2
		}
	}
	if sb.Len() > 0 {
		out = append(out, sb.String())
	}
	return out
}

func isTerminatorRune(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
