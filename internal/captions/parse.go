package captions

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadTimestamp : timestamp d'un bloc de timing illisible. Fatal pour le
// fichier courant (on ne devine pas), mais sans effet sur les autres unités.
var ErrBadTimestamp = errors.New("timestamp de sous-titre illisible")

var (
	// forme attendue : HH:MM:SS ou HH:MM:SS.mmm
	timestampPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(?:\.(\d{3}))?$`)

	// cue "bruit" : le texte entier est une seule annotation [Applause], [Music]...
	noisePattern = regexp.MustCompile(`^\[.*?\]$`)

	// balises inline restantes après le dump (<c>, <i>, timestamps inline...)
	tagPattern = regexp.MustCompile(`<[^>]+>`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// ParseTimestamp convertit "HH:MM:SS[.mmm]" en secondes.
func ParseTimestamp(raw string) (float64, error) {
	m := timestampPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, raw)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis := 0
	if m[4] != "" {
		millis, _ = strconv.Atoi(m[4])
	}
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000, nil
}

// CleanText nettoie le texte brut d'un bloc : HTML unescape, suppression des
// balises et des notes musicales, espaces normalisés. Retourne "" si le
// résultat est vide ou n'est qu'une annotation entre crochets.
func CleanText(text string) string {
	text = html.UnescapeString(text)
	text = tagPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "♪", "")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if noisePattern.MatchString(text) {
		return ""
	}
	return text
}

// ParseVTT parse un flux timed-text en séquence ordonnée de cues.
//
// Blocs séparés par des lignes vides ; chaque bloc porte une ligne de timing
// "start --> end" suivie d'une ou plusieurs lignes de texte. Les lignes
// d'en-tête (WEBVTT, NOTE) sont ignorées. Un bloc dont le texte nettoyé est
// identique (insensible à la casse) au dernier cue retenu est écarté : les
// captions auto répètent très souvent un cue à l'identique d'un bloc de
// timing au suivant. Seuls les doublons immédiats sont supprimés ici.
func ParseVTT(r io.Reader) ([]Cue, error) {
	var (
		cues     []Cue
		start    float64
		pending  bool // un timing a été vu pour le bloc courant
		lines    []string
		lastText string // forme casefold du dernier cue retenu
	)

	flush := func() {
		if !pending || len(lines) == 0 {
			return
		}
		text := CleanText(strings.Join(lines, " "))
		if text != "" {
			normalized := strings.ToLower(text)
			if normalized != lastText {
				cues = append(cues, Cue{Start: start, Text: text})
				lastText = normalized
			}
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			pending = false
			lines = nil
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") {
			continue
		}
		if strings.Contains(line, "-->") {
			startPart := strings.TrimSpace(strings.SplitN(line, "-->", 2)[0])
			s, err := ParseTimestamp(startPart)
			if err != nil {
				return nil, err
			}
			start = s
			pending = true
			lines = nil
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lecture du flux vtt: %w", err)
	}

	// dernier bloc (fichier sans ligne vide finale)
	flush()
	return cues, nil
}
