package document

import "strings"

// La décomposition passe par deux étapes isolées : d'abord un tokenizer de
// lignes (ici), ensuite le repli structurel en items (decompose.go). Le
// pattern-matching fragile reste confiné ici et se teste séparément.

type lineKind int

const (
	lineBlank lineKind = iota
	lineHeading
	lineSmall
	lineMarker
	linePlain
)

type lineToken struct {
	kind lineKind
	text string
}

// tokenizeLines classe chaque ligne du contenu. Les fins de ligne CRLF sont
// normalisées, le texte des tokens est conservé tel quel par ailleurs.
func tokenizeLines(content string) []lineToken {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	out := make([]lineToken, 0, len(lines))
	for _, line := range lines {
		out = append(out, lineToken{kind: classifyLine(line), text: line})
	}
	return out
}

func classifyLine(line string) lineKind {
	switch {
	case strings.TrimSpace(line) == "":
		return lineBlank
	case strings.HasPrefix(line, "### "):
		return lineHeading
	case strings.HasPrefix(line, "<small>"):
		return lineSmall
	case strings.HasPrefix(line, "<!--"):
		return lineMarker
	default:
		return linePlain
	}
}
