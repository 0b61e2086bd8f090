package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/patrickprogramme/postscribe/internal/config"
	"github.com/patrickprogramme/postscribe/internal/logging"
	"github.com/patrickprogramme/postscribe/internal/posts"
	"github.com/patrickprogramme/postscribe/internal/translate"
	"github.com/patrickprogramme/postscribe/internal/yt"
)

const fixtureVTT = `WEBVTT
Kind: captions

00:00:00.000 --> 00:00:02.000
Alice: Hello there.

00:00:02.000 --> 00:00:04.000
Alice: Hello there. Welcome to the show.
`

// fakeYt simule yt-dlp en écrivant un fichier VTT de test dans le cache.
type fakeYt struct {
	langs   []string    // langues demandées, dans l'ordre
	failFor set[string] // langues pour lesquelles ErrNoCaption est retourné
	content string
}

type set[T comparable] map[T]struct{}

func (f *fakeYt) CheckBinary() error { return nil }

func (f *fakeYt) GetVersion(_ context.Context) (string, error) { return "2026.01.01", nil }

func (f *fakeYt) DownloadCaptions(_ context.Context, _ string, destDir, lang string) (string, error) {
	f.langs = append(f.langs, lang)
	if _, fail := f.failFor[lang]; fail {
		return "", yt.ErrNoCaption
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	first := strings.Split(lang, ",")[0]
	path := filepath.Join(destDir, "vid123."+first+".vtt")
	content := f.content
	if content == "" {
		content = fixtureVTT
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// stubService retourne une traduction fixe, ou une erreur.
type stubService struct {
	calls   int
	err     error
	replace string
}

func (s *stubService) Translate(_ context.Context, batch []string) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]string, len(batch))
	for i := range batch {
		out[i] = s.replace
	}
	return out, nil
}

func (s *stubService) Summarize(_ context.Context, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "", nil
}

// silentUI n'interagit pas ; le presse-papier est indisponible.
type silentUI struct {
	infos []string
}

func (u *silentUI) PrintInfo(_ context.Context, s string)  { u.infos = append(u.infos, s) }
func (u *silentUI) PrintError(_ context.Context, s string) {}

func (u *silentUI) WaitForClipboardChange(_ context.Context, _ string, _, _ time.Duration) (string, error) {
	return "", errors.New("presse-papier indisponible")
}

func newTestApp(t *testing.T, ytClient yt.Interface, svc translate.Service) (*App, *config.Config, *silentUI) {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.PostsDir = filepath.Join(dir, "posts")
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.PostsJSON = filepath.Join(dir, "posts.json")
	cfg.Summary.Clipboard = false

	registry := `[
  {"slug": "ep-1", "title": "AI Startup School: Alice", "tags": ["AI Startup School", "Alice"], "cover": "https://youtu.be/vid123"},
  {"slug": "ep-2", "title": "Fireside: Bob", "tags": [], "url": "https://youtu.be/vid456"}
]`
	if err := os.WriteFile(cfg.PostsJSON, []byte(registry), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := posts.Load(cfg.PostsJSON)
	if err != nil {
		t.Fatalf("posts.Load: %v", err)
	}

	log := logging.New(io.Discard, "error")
	uiClient := &silentUI{}
	return New(cfg, log, reg, ytClient, svc, uiClient), cfg, uiClient
}

func TestFetchWritesPost(t *testing.T) {
	fake := &fakeYt{}
	app, cfg, _ := newTestApp(t, fake, &stubService{})

	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.PostsDir, "ep-1.md"))
	if err != nil {
		t.Fatalf("article non écrit: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "<!-- summary -->\n"+SummaryPlaceholder+"\n<!-- endsummary -->") {
		t.Errorf("marqueur de résumé absent:\n%s", content)
	}
	if !strings.Contains(content, "### Alice <small>[00:00]</small>") {
		t.Errorf("en-tête de locuteur absent:\n%s", content)
	}
	if !strings.Contains(content, "Hello there. Welcome to the show.") {
		t.Errorf("fusion des répliques incorrecte:\n%s", content)
	}
	if !strings.Contains(content, "原始影片") {
		t.Errorf("référence à la vidéo absente:\n%s", content)
	}
	// pas de fichier préexistant => pas de sauvegarde .bak
	if _, err := os.Stat(filepath.Join(cfg.PostsDir, "ep-1.md.bak")); !os.IsNotExist(err) {
		t.Error("sauvegarde créée sans article préexistant")
	}
}

func TestFetchSkipsExistingWithoutForce(t *testing.T) {
	fake := &fakeYt{}
	app, cfg, _ := newTestApp(t, fake, &stubService{})

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(cfg.PostsDir, "ep-1.md")
	if err := os.WriteFile(existing, []byte("contenu manuel\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fake.langs) != 0 {
		t.Errorf("yt-dlp appelé pour un article existant: %v", fake.langs)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "contenu manuel\n" {
		t.Errorf("article existant modifié: %q", data)
	}
}

func TestFetchLanguageFallback(t *testing.T) {
	fake := &fakeYt{failFor: set[string]{"en": {}}}
	app, cfg, _ := newTestApp(t, fake, &stubService{})

	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := []string{"en", "en-US,en-GB"}
	if len(fake.langs) != 2 || fake.langs[0] != want[0] || fake.langs[1] != want[1] {
		t.Fatalf("langues demandées = %v, attendu %v", fake.langs, want)
	}
	if _, err := os.Stat(filepath.Join(cfg.PostsDir, "ep-1.md")); err != nil {
		t.Errorf("article non écrit après repli: %v", err)
	}
}

func TestFetchNoCaptionSkipsUnit(t *testing.T) {
	fake := &fakeYt{failFor: set[string]{"en": {}, "en-US,en-GB": {}}}
	app, cfg, _ := newTestApp(t, fake, &stubService{})

	// aucune piste dans aucune langue : l'article est sauté, pas d'erreur
	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.PostsDir, "ep-1.md")); !os.IsNotExist(err) {
		t.Error("article écrit sans captions")
	}
}

func TestFetchSkipDownloadUsesCache(t *testing.T) {
	fake := &fakeYt{}
	app, cfg, _ := newTestApp(t, fake, &stubService{})

	cacheDir := filepath.Join(cfg.CacheDir, "ep-1")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "vid123.en.vtt"), []byte(fixtureVTT), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{SkipDownload: true}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fake.langs) != 0 {
		t.Errorf("yt-dlp appelé malgré --skip-download: %v", fake.langs)
	}
	if _, err := os.Stat(filepath.Join(cfg.PostsDir, "ep-1.md")); err != nil {
		t.Errorf("article non écrit depuis le cache: %v", err)
	}
}

func TestFetchDryRunPrintsWithoutWriting(t *testing.T) {
	fake := &fakeYt{}
	app, cfg, uiClient := newTestApp(t, fake, &stubService{})

	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{DryRun: true}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.PostsDir, "ep-1.md")); !os.IsNotExist(err) {
		t.Error("article écrit en mode dry-run")
	}
	var printed bool
	for _, s := range uiClient.infos {
		if strings.Contains(s, "### Alice") {
			printed = true
		}
	}
	if !printed {
		t.Errorf("rendu non affiché en dry-run: %v", uiClient.infos)
	}
}

func TestFetchPreservesExistingSummary(t *testing.T) {
	fake := &fakeYt{}
	app, cfg, _ := newTestApp(t, fake, &stubService{})

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := "<!-- summary -->\n已有的摘要。\n<!-- endsummary -->\n\nancien corps\n"
	path := filepath.Join(cfg.PostsDir, "ep-1.md")
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{Force: true}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "已有的摘要。") {
		t.Errorf("résumé existant perdu:\n%s", data)
	}
	// régénération forcée => l'original est sauvegardé
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("sauvegarde absente après régénération: %v", err)
	}
}

func TestTranslatePatchesItems(t *testing.T) {
	app, cfg, _ := newTestApp(t, &fakeYt{}, &stubService{replace: "譯文內容"})

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "<!-- summary -->\nA short English summary.\n<!-- endsummary -->\n\n" +
		"### Alice <small>[00:00]</small>\nHello everyone, welcome.\n"
	path := filepath.Join(cfg.PostsDir, "ep-1.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.Translate(context.Background(), []string{"ep-1"}, TranslateOptions{}); err != nil {
		t.Fatalf("Translate: %v", err)
	}

	data, _ := os.ReadFile(path)
	got := string(data)
	if !strings.Contains(got, "<!-- summary -->\n譯文內容\n<!-- endsummary -->") {
		t.Errorf("résumé non traduit:\n%s", got)
	}
	if !strings.Contains(got, "### Alice <small>[00:00]</small>\n譯文內容") {
		t.Errorf("corps non traduit (la structure doit survivre):\n%s", got)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("sauvegarde absente: %v", err)
	}
	backup, _ := os.ReadFile(path + ".bak")
	if string(backup) != content {
		t.Errorf("la sauvegarde doit contenir l'original:\n%s", backup)
	}
}

func TestTranslateSkipsChineseContent(t *testing.T) {
	svc := &stubService{replace: "譯文"}
	app, cfg, _ := newTestApp(t, &fakeYt{}, svc)

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "<!-- summary -->\n這是中文摘要內容。\n<!-- endsummary -->\n\n這是中文正文內容。\n"
	path := filepath.Join(cfg.PostsDir, "ep-1.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.Translate(context.Background(), []string{"ep-1"}, TranslateOptions{}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if svc.calls != 0 {
		t.Errorf("service appelé pour un article déjà chinois (%d appels)", svc.calls)
	}
}

func TestTranslateQuotaAbortsRun(t *testing.T) {
	svc := &stubService{err: translate.ErrQuotaExhausted}
	app, cfg, _ := newTestApp(t, &fakeYt{}, svc)

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "English body text only.\n"
	for _, slug := range []string{"ep-1", "ep-2"} {
		if err := os.WriteFile(filepath.Join(cfg.PostsDir, slug+".md"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	err := app.Translate(context.Background(), nil, TranslateOptions{})
	if !errors.Is(err, translate.ErrQuotaExhausted) {
		t.Fatalf("erreur = %v, attendu ErrQuotaExhausted", err)
	}
	// l'épuisement du quota arrête le run dès le premier article
	if svc.calls != 1 {
		t.Errorf("%d appels au service, attendu 1", svc.calls)
	}
}

func TestTranslateNoopLeavesFileIntact(t *testing.T) {
	app, cfg, _ := newTestApp(t, &fakeYt{}, translate.Noop{})

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "English body text only.\n"
	path := filepath.Join(cfg.PostsDir, "ep-1.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := app.Translate(context.Background(), []string{"ep-1"}, TranslateOptions{}); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	// traductions identiques => ni réécriture ni sauvegarde
	data, _ := os.ReadFile(path)
	if string(data) != content {
		t.Errorf("fichier modifié sans traduction réelle: %q", data)
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Error("sauvegarde créée alors que le contenu est inchangé")
	}
}

func TestFetchDryRunSkipsExistingPost(t *testing.T) {
	fake := &fakeYt{}
	app, cfg, uiClient := newTestApp(t, fake, &stubService{})

	if err := os.MkdirAll(cfg.PostsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.PostsDir, "ep-1.md"), []byte("contenu manuel\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// l'aperçu respecte la même garde que le vrai run : pas de téléchargement
	if err := app.Fetch(context.Background(), []string{"ep-1"}, FetchOptions{DryRun: true}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fake.langs) != 0 {
		t.Errorf("yt-dlp appelé en dry-run pour un article existant: %v", fake.langs)
	}
	for _, s := range uiClient.infos {
		if strings.Contains(s, "###") {
			t.Errorf("rendu affiché pour un article qui serait sauté: %q", s)
		}
	}
}

func TestTranslateUnknownSlug(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeYt{}, &stubService{})
	if err := app.Translate(context.Background(), []string{"inconnu"}, TranslateOptions{}); err == nil {
		t.Fatal("erreur attendue pour un slug sans article")
	}
}
