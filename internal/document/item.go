// Package document modélise un transcript rendu : une liste ordonnée d'items
// typés (résumé, heading, timestamp, texte, brut) qui se sérialise en Markdown
// et se re-décompose depuis un document existant. Les deux directions doivent
// boucler : Serialize(Decompose(doc)) == doc pour tout document produit ici.
package document

// Kind identifie le rôle d'un item dans le document.
type Kind string

const (
	KindSummary   Kind = "summary"   // bloc résumé entre marqueurs
	KindHeading   Kind = "heading"   // "### Nom"
	KindTimestamp Kind = "timestamp" // "<small>[mm:ss]</small>"
	KindText      Kind = "text"      // contenu parlé (traduisible)
	KindRaw       Kind = "raw"       // ligne structurelle conservée telle quelle
)

// Item est l'unité de structure d'un document : un tag + son contenu.
// Invariants : un heading est toujours immédiatement suivi de son timestamp ;
// le résumé, s'il existe, est toujours en premier.
type Item struct {
	Kind    Kind
	Content string
}

// Translatable indique si le contenu de l'item passe par la frontière de
// traduction (résumé et blocs de texte ; jamais la structure).
func (i Item) Translatable() bool {
	return i.Kind == KindSummary || i.Kind == KindText
}
