// Package textutil regroupe les petites analyses de texte partagées par les
// pipelines (détection du chinois pour décider quoi traduire).
package textutil

import "unicode/utf8"

// plage CJK Unified Ideographs, suffisante pour distinguer un post déjà
// traduit d'un post encore en anglais
func isChineseRune(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

// HasChinese indique si s contient au moins un idéogramme chinois.
func HasChinese(s string) bool {
	for _, r := range s {
		if isChineseRune(r) {
			return true
		}
	}
	return false
}

// ChineseRatio retourne la proportion de runes chinoises dans s (0.0 à 1.0).
// Chaîne vide -> 0.
func ChineseRatio(s string) float64 {
	if s == "" {
		return 0
	}
	total := utf8.RuneCountInString(s)
	chinese := 0
	for _, r := range s {
		if isChineseRune(r) {
			chinese++
		}
	}
	return float64(chinese) / float64(total)
}
