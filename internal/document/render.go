package document

import (
	"fmt"
	"strings"

	"github.com/patrickprogramme/postscribe/internal/captions"
)

// FormatTimestamp formate des secondes en "MM:SS", ou "HH:MM:SS" au-delà
// d'une heure. Secondes tronquées (pas d'arrondi), champs sur 2 chiffres.
func FormatTimestamp(seconds float64) string {
	whole := int64(seconds)
	h := whole / 3600
	m := (whole % 3600) / 60
	s := whole % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// SourceReference construit la ligne d'annotation vers la vidéo d'origine.
func SourceReference(url string) string {
	return fmt.Sprintf("<small>原始影片：[%s](%s)</small>", url, url)
}

// BuildItems construit la liste d'items d'un document à partir des segments
// fusionnés : résumé d'abord, ligne de référence source si une URL existe,
// puis un bloc par segment. Un segment avec locuteur (explicite ou fallback)
// devient heading + timestamp + texte ; sans locuteur, timestamp + texte
// rendus inline.
func BuildItems(summary string, segments []captions.Segment, fallbackSpeaker, sourceURL string) []Item {
	items := []Item{{Kind: KindSummary, Content: strings.TrimSpace(summary)}}
	if sourceURL != "" {
		items = append(items, Item{Kind: KindRaw, Content: SourceReference(sourceURL)})
	}
	for _, seg := range segments {
		ts := "<small>[" + FormatTimestamp(seg.Start) + "]</small>"
		speaker := seg.Speaker
		if speaker == "" {
			speaker = fallbackSpeaker
		}
		if speaker != "" {
			items = append(items,
				Item{Kind: KindHeading, Content: "### " + speaker},
				Item{Kind: KindTimestamp, Content: ts},
			)
		} else {
			items = append(items, Item{Kind: KindTimestamp, Content: ts})
		}
		items = append(items, Item{Kind: KindText, Content: seg.Text})
	}
	return items
}

// Serialize rend la liste d'items en document final : blocs séparés par une
// ligne vide, exactement un newline final. Un heading et son timestamp
// partagent une ligne ; un timestamp sans heading précède son texte sur la
// même ligne (forme inline).
func Serialize(items []Item) string {
	var blocks []string
	for i := 0; i < len(items); {
		it := items[i]
		switch it.Kind {
		case KindSummary:
			blocks = append(blocks, summaryOpen+"\n"+strings.TrimSpace(it.Content)+"\n"+summaryClose)
			i++

		case KindHeading:
			line := strings.TrimSpace(it.Content)
			i++
			if i < len(items) && items[i].Kind == KindTimestamp {
				line += " " + items[i].Content
				i++
			}
			if i < len(items) && items[i].Kind == KindText {
				blocks = append(blocks, line+"\n"+items[i].Content)
				i++
			} else {
				blocks = append(blocks, line)
			}

		case KindTimestamp:
			line := it.Content
			i++
			if i < len(items) && items[i].Kind == KindText {
				line += " " + items[i].Content
				i++
			}
			blocks = append(blocks, line)

		case KindText, KindRaw:
			blocks = append(blocks, it.Content)
			i++

		default:
			i++
		}
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// ExtractSummary retourne le contenu du bloc résumé d'un document existant,
// ou ("", false) si les marqueurs sont absents ou le bloc vide.
func ExtractSummary(content string) (string, bool) {
	m := summaryPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	summary := strings.TrimSpace(m[1])
	if summary == "" {
		return "", false
	}
	return summary, true
}
