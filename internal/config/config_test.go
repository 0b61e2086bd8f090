package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PostsJSON != filepath.Clean("public/posts/posts.json") {
		t.Errorf("PostsJSON = %q", cfg.PostsJSON)
	}
	if cfg.Translation.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Translation.Model)
	}
	if cfg.Translation.BatchSize != 20 || cfg.Translation.RetryLimit != 3 {
		t.Errorf("BatchSize/RetryLimit = %d/%d", cfg.Translation.BatchSize, cfg.Translation.RetryLimit)
	}
	if cfg.YtDlp.Lang != "en" || cfg.YtDlp.FallbackLang != "en-US,en-GB" {
		t.Errorf("Lang/FallbackLang = %q/%q", cfg.YtDlp.Lang, cfg.YtDlp.FallbackLang)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "postscribe.yaml")
	content := `
posts_dir: content/posts
translation:
  model: gpt-4o
  batch_size: 5
yt_dlp:
  lang: fr
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PostsDir != filepath.Clean("content/posts") {
		t.Errorf("PostsDir = %q", cfg.PostsDir)
	}
	if cfg.Translation.Model != "gpt-4o" || cfg.Translation.BatchSize != 5 {
		t.Errorf("Model/BatchSize = %q/%d", cfg.Translation.Model, cfg.Translation.BatchSize)
	}
	// les champs absents conservent les valeurs par défaut
	if cfg.Translation.RetryLimit != 3 {
		t.Errorf("RetryLimit = %d, attendu 3", cfg.Translation.RetryLimit)
	}
	if cfg.YtDlp.Lang != "fr" {
		t.Errorf("Lang = %q", cfg.YtDlp.Lang)
	}
}

func TestNormalizeClampsValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Translation.BatchSize = 0
	cfg.Translation.MinChineseRatio = 1.5
	cfg.LogLevel = "  DEBUG "
	cfg.normalizeConfig()

	if cfg.Translation.BatchSize != 20 {
		t.Errorf("BatchSize = %d", cfg.Translation.BatchSize)
	}
	if cfg.Translation.MinChineseRatio != 0.5 {
		t.Errorf("MinChineseRatio = %v", cfg.Translation.MinChineseRatio)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestResolveAPIKeyPrecedence(t *testing.T) {
	cfg := defaultConfig()
	cfg.Translation.APIKey = "depuis-config"
	t.Setenv("OPENAI_API_KEY", "depuis-env")

	if got := cfg.ResolveAPIKey("depuis-drapeau"); got != "depuis-drapeau" {
		t.Errorf("avec drapeau : %q", got)
	}
	if got := cfg.ResolveAPIKey(""); got != "depuis-config" {
		t.Errorf("sans drapeau : %q", got)
	}
	cfg.Translation.APIKey = ""
	if got := cfg.ResolveAPIKey(""); got != "depuis-env" {
		t.Errorf("env seulement : %q", got)
	}
}

func TestResolveYtDlpPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.YtDlp.Path = ""
	cfg.ResolveYtDlpPath()
	if cfg.YtDlp.ResolvedPath != cfg.YtDlp.Name {
		t.Errorf("chemin vide : ResolvedPath = %q", cfg.YtDlp.ResolvedPath)
	}

	cfg.YtDlp.Path = filepath.Join("tools", "bin")
	cfg.ResolveYtDlpPath()
	want := filepath.Join("tools", "bin", cfg.YtDlp.Name)
	if cfg.YtDlp.ResolvedPath != want {
		t.Errorf("répertoire : ResolvedPath = %q, attendu %q", cfg.YtDlp.ResolvedPath, want)
	}
}
