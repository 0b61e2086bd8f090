// Package captions transforme un flux de sous-titres automatiques (dialecte VTT)
// en segments de transcript propres : parsing des cues, détection du locuteur,
// fusion par chevauchement. Tout le traitement opère sur des runes (pas des
// octets) pour rester correct sur les scripts non-latins.
package captions

// Cue représente une entrée de sous-titre retenue après nettoyage.
type Cue struct {
	Start float64 // début en secondes (précision sub-seconde)
	Text  string  // texte nettoyé, espaces normalisés, jamais vide
}

// Segment représente un bloc de parole dans le document final.
// Speaker vide = aucun locuteur détecté.
type Segment struct {
	Start   float64
	Speaker string
	Text    string
}
