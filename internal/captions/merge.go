package captions

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSegmentRunes : plafond de longueur d'un segment. Au-delà, le cue suivant
// ouvre un nouveau segment même si le locuteur n'a pas changé.
const maxSegmentRunes = 2500

// CuesToSegments replie la séquence de cues en segments attribués.
//
// Un nouveau segment démarre au premier cue, à chaque changement de locuteur
// (égalité stricte des noms ; deux cues sans locuteur sont "le même"), ou
// quand le segment courant a dépassé maxSegmentRunes. Sinon le texte du cue
// est fusionné dans le segment courant via MergeSegmentText, en conservant le
// start d'origine. Les segments ne sont jamais réordonnés.
func CuesToSegments(cues []Cue) []Segment {
	var segments []Segment
	for _, cue := range cues {
		speaker, remaining := SplitSpeaker(cue.Text)
		remaining = NormalizeSentence(remaining)
		if remaining == "" {
			continue
		}

		if len(segments) > 0 {
			last := &segments[len(segments)-1]
			if last.Speaker == speaker && utf8.RuneCountInString(last.Text) <= maxSegmentRunes {
				merged := MergeSegmentText(last.Text, remaining)
				if merged == last.Text {
					// cue sans apport (doublon ou sous-ensemble)
					continue
				}
				last.Text = merged
				continue
			}
		}
		segments = append(segments, Segment{Start: cue.Start, Speaker: speaker, Text: remaining})
	}
	return segments
}

// MergeSegmentText fusionne le texte accumulé d'un segment avec le texte d'un
// nouveau cue du même locuteur. L'ordre des règles est un comportement, pas un
// accident — il est préservé tel quel :
//
//  1. addition == existing (casefold)        -> rien à faire
//  2. existing est une sous-chaîne d'addition -> addition remplace (les captions
//     auto ré-énoncent une phrase qui grandit)
//  3. addition est une sous-chaîne d'existing -> rien à faire
//  4. chevauchement suffixe/préfixe           -> n'ajouter que la queue
//  5. sinon concaténation simple
func MergeSegmentText(existing, addition string) string {
	if addition == "" {
		return existing
	}
	if existing == "" {
		return addition
	}

	existingNorm := foldString(strings.TrimSpace(existing))
	additionNorm := foldString(strings.TrimSpace(addition))

	if additionNorm == existingNorm {
		return existing
	}
	if strings.Contains(additionNorm, existingNorm) {
		return addition
	}
	if strings.Contains(existingNorm, additionNorm) {
		return existing
	}

	if overlap := longestOverlap(existing, addition); overlap != "" {
		remainder := strings.TrimLeftFunc(addition[len(overlap):], unicode.IsSpace)
		if remainder == "" {
			return existing
		}
		return strings.TrimSpace(existing + " " + remainder)
	}

	return strings.TrimSpace(existing + " " + addition)
}

// longestOverlap retourne le plus long préfixe d'addition qui est aussi un
// suffixe d'existing (comparaison insensible à la casse, alignée sur les
// runes). Le préfixe retourné garde la casse d'addition.
func longestOverlap(existing, addition string) string {
	exFold := []rune(foldString(existing))
	adFold := []rune(foldString(addition))
	adRunes := []rune(addition)

	max := len(exFold)
	if len(adFold) < max {
		max = len(adFold)
	}
	// comme la casse ne change pas le nombre de runes ici (fold rune à rune),
	// les index de adFold restent valables dans adRunes
	for length := max; length > 0; length-- {
		if runesEqual(exFold[len(exFold)-length:], adFold[:length]) {
			return string(adRunes[:length])
		}
	}
	return ""
}

// foldString abaisse la casse rune à rune (longueur en runes conservée).
func foldString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
