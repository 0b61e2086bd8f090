package document

import (
	"testing"

	"github.com/patrickprogramme/postscribe/internal/captions"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "00:00"},
		{in: 65, want: "01:05"},
		{in: 65.9, want: "01:05"}, // troncature, pas d'arrondi
		{in: 3599, want: "59:59"},
		{in: 3725, want: "01:02:05"},
		{in: 36000, want: "10:00:00"},
	}
	for _, tc := range tests {
		if got := FormatTimestamp(tc.in); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildItemsAndSerialize(t *testing.T) {
	segments := []captions.Segment{
		{Start: 5, Speaker: "Alice", Text: "welcome everyone"},
		{Start: 65, Speaker: "", Text: "crowd noise continues"},
	}
	items := BuildItems("Un résumé.", segments, "", "https://example.com/v")

	want := `<!-- summary -->
Un résumé.
<!-- endsummary -->

<small>原始影片：[https://example.com/v](https://example.com/v)</small>

### Alice <small>[00:05]</small>
welcome everyone

<small>[01:05]</small> crowd noise continues
`
	if got := Serialize(items); got != want {
		t.Errorf("Serialize =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildItems_FallbackSpeaker(t *testing.T) {
	segments := []captions.Segment{{Start: 0, Speaker: "", Text: "hello"}}
	items := BuildItems("s", segments, "Sam Altman", "")

	var heading *Item
	for i := range items {
		if items[i].Kind == KindHeading {
			heading = &items[i]
		}
	}
	if heading == nil || heading.Content != "### Sam Altman" {
		t.Fatalf("heading = %+v; want ### Sam Altman", heading)
	}
}

func TestSerialize_HeadingWithoutTextStaysAlone(t *testing.T) {
	items := []Item{
		{Kind: KindHeading, Content: "### Alice"},
		{Kind: KindTimestamp, Content: "<small>[00:05]</small>"},
	}
	want := "### Alice <small>[00:05]</small>\n"
	if got := Serialize(items); got != want {
		t.Errorf("Serialize = %q; want %q", got, want)
	}
}

func TestExtractSummary(t *testing.T) {
	content := "<!-- summary -->\n重點摘要\n<!-- endsummary -->\n\nbody\n"
	summary, ok := ExtractSummary(content)
	if !ok || summary != "重點摘要" {
		t.Fatalf("ExtractSummary = (%q, %v)", summary, ok)
	}

	if _, ok := ExtractSummary("no markers here"); ok {
		t.Error("ExtractSummary devrait échouer sans marqueurs")
	}
	if _, ok := ExtractSummary("<!-- summary -->\n  \n<!-- endsummary -->"); ok {
		t.Error("ExtractSummary devrait ignorer un bloc vide")
	}
}
