package posts

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write posts.json: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeRegistry(t, `[
		{"slug": "a-post", "title": "T", "tags": ["AI Startup School"], "url": "https://u/a"},
		{"slug": "b-post", "title": "U", "cover": "https://u/b-cover", "url": "https://u/b"}
	]`)
	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d; want 2", reg.Len())
	}
	if got := reg.Slugs(); len(got) != 2 || got[0] != "a-post" || got[1] != "b-post" {
		t.Errorf("Slugs = %v", got)
	}

	b, ok := reg.Get("b-post")
	if !ok {
		t.Fatal("Get(b-post) introuvable")
	}
	// cover prioritaire sur url
	if b.VideoURL() != "https://u/b-cover" {
		t.Errorf("VideoURL = %q", b.VideoURL())
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) devrait échouer")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := writeRegistry(t, "{not json")
	if _, err := Load(path); err == nil {
		t.Fatal("Load devrait échouer sur un JSON invalide")
	}
}

func TestPrimarySpeaker(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want string
	}{
		{
			name: "last non reserved tag",
			post: Post{Tags: []string{"Y Combinator", "AI Startup School", "Andrej Karpathy"}},
			want: "Andrej Karpathy",
		},
		{
			name: "reserved tags skipped in reverse order",
			post: Post{Tags: []string{"Elad Gil", "AI Startup School"}},
			want: "Elad Gil",
		},
		{
			name: "fallback to title last colon part",
			post: Post{Tags: []string{"AI Startup School"}, Title: "Software 3.0: Andrej Karpathy"},
			want: "Andrej Karpathy",
		},
		{
			name: "fullwidth colon",
			post: Post{Title: "主題：講者"},
			want: "講者",
		},
		{
			name: "nothing usable",
			post: Post{Tags: []string{"Y Combinator"}},
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.post.PrimarySpeaker(); got != tc.want {
				t.Errorf("PrimarySpeaker = %q; want %q", got, tc.want)
			}
		})
	}
}
