package document

import (
	"regexp"
	"strings"
)

const (
	summaryOpen  = "<!-- summary -->"
	summaryClose = "<!-- endsummary -->"
)

var (
	summaryPattern = regexp.MustCompile(`(?s)<!-- summary -->(.*?)<!-- endsummary -->`)

	// "### Nom <small>[12:34]</small>" -> heading + timestamp
	headingPattern = regexp.MustCompile(`^(###\s+.+?)\s*(<small>\[\d{2}:\d{2}(?::\d{2})?\]</small>.*)$`)

	// "<small>[12:34]</small> texte" -> timestamp + texte inline
	inlinePattern = regexp.MustCompile(`^(<small>\[\d{2}:\d{2}(?::\d{2})?\]</small>)\s*(.*)$`)
)

// Decompose re-dérive la liste d'items d'un document déjà rendu, pour la
// re-traduction incrémentale sans retraiter les captions.
//
// Le bloc résumé (entre marqueurs) est extrait en premier s'il existe. Le
// reste est tokenizé ligne à ligne puis replié : les lignes ordinaires
// consécutives s'accumulent en un item texte, les lignes délimitantes
// (heading, <small>, marqueur) émettent le bloc accumulé puis se décomposent
// elles-mêmes en heading+timestamp, timestamp+texte, ou item brut quand le
// motif ne colle pas (ex. la ligne de référence vers la vidéo source).
func Decompose(content string) []Item {
	var items []Item

	rest := content
	if loc := summaryPattern.FindStringSubmatchIndex(content); loc != nil {
		summary := strings.TrimSpace(content[loc[2]:loc[3]])
		items = append(items, Item{Kind: KindSummary, Content: summary})
		rest = content[loc[1]:]
	}

	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(block, "\n"))
		block = nil
		if text != "" {
			items = append(items, Item{Kind: KindText, Content: text})
		}
	}

	for _, tok := range tokenizeLines(rest) {
		switch tok.kind {
		case lineBlank:
			flush()

		case linePlain:
			block = append(block, tok.text)

		case lineHeading:
			flush()
			if m := headingPattern.FindStringSubmatch(tok.text); m != nil {
				items = append(items,
					Item{Kind: KindHeading, Content: m[1]},
					Item{Kind: KindTimestamp, Content: strings.TrimSpace(m[2])},
				)
			} else {
				items = append(items, Item{Kind: KindRaw, Content: tok.text})
			}

		case lineSmall:
			flush()
			if m := inlinePattern.FindStringSubmatch(tok.text); m != nil {
				items = append(items, Item{Kind: KindTimestamp, Content: m[1]})
				if body := strings.TrimSpace(m[2]); body != "" {
					items = append(items, Item{Kind: KindText, Content: body})
				}
			} else {
				// pas un timestamp (ligne de référence source, etc.)
				items = append(items, Item{Kind: KindRaw, Content: tok.text})
			}

		case lineMarker:
			flush()
			items = append(items, Item{Kind: KindRaw, Content: tok.text})
		}
	}
	flush()

	return items
}
