// Package yt encapsule l'exécutable yt-dlp : vérification du binaire,
// version, et téléchargement des captions auto d'une vidéo. Le reste du
// pipeline passe par Interface et ne connaît pas le sous-processus.
package yt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoCaption : yt-dlp a tourné mais aucune piste de captions n'est apparue
// pour la langue demandée. Recoverable — l'appelant peut retenter avec une
// autre langue ou sauter l'unité.
var ErrNoCaption = errors.New("aucune piste de captions disponible")

const versionTimeout = 5 * time.Second

// Options regroupe les flags ajoutés à chaque invocation.
type Options struct {
	SubFormat    string // format de sous-titres demandé ("vtt")
	NoWarnings   bool
	NoProgress   bool
	NoOverwrites bool
	NoConfig     bool // ignorer les configs utilisateur, comportement prévisible
}

// NewOptions retourne les options standard ; showWarnings vient de la config.
func NewOptions(showWarnings bool) Options {
	return Options{
		SubFormat:    "vtt",
		NoWarnings:   !showWarnings,
		NoProgress:   true,
		NoOverwrites: true,
		NoConfig:     true,
	}
}

// YtDlp pilote l'exécutable. Path doit être le chemin résolu (ou un nom à
// chercher dans le PATH).
type YtDlp struct {
	Name    string
	Path    string
	Options Options
}

// NewYtDlp construit une instance.
func NewYtDlp(name, resolvedPath string, opts Options) *YtDlp {
	return &YtDlp{Name: name, Path: resolvedPath, Options: opts}
}

func (y *YtDlp) exe() string {
	if y.Path != "" {
		return y.Path
	}
	return y.Name
}

// CheckBinary vérifie que le binaire existe et n'est pas un répertoire.
// Un nom nu est résolu via le PATH.
func (y *YtDlp) CheckBinary() error {
	if y == nil {
		return fmt.Errorf("yt-dlp non initialisé")
	}

	exe := y.exe()
	if !strings.ContainsRune(exe, os.PathSeparator) {
		if _, err := exec.LookPath(exe); err != nil {
			return fmt.Errorf("yt-dlp introuvable dans le PATH (%s): %w", exe, err)
		}
		return nil
	}

	info, err := os.Stat(exe)
	if err != nil {
		return fmt.Errorf("yt-dlp introuvable (%s): %w", exe, err)
	}
	if info.IsDir() {
		return fmt.Errorf("le chemin spécifié pour yt-dlp est un répertoire: %s", exe)
	}
	return nil
}

// GetVersion exécute `yt-dlp --version` avec un petit timeout.
func (y *YtDlp) GetVersion(ctx context.Context) (string, error) {
	vctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(vctx, y.exe(), "--version").Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// BuildArgs construit la ligne d'arguments pour le téléchargement des
// captions auto. --output %(id)s : le nom du fichier produit est l'id vidéo,
// la langue et l'extension sont ajoutées par yt-dlp lui-même.
func (y *YtDlp) BuildArgs(url, lang string) []string {
	args := make([]string, 0, 12)
	if y.Options.NoConfig {
		args = append(args, "--no-config")
	}
	args = append(args, "--write-auto-subs", "--skip-download", "--sub-lang", lang)
	if y.Options.SubFormat != "" {
		args = append(args, "--sub-format", y.Options.SubFormat)
	}
	if y.Options.NoWarnings {
		args = append(args, "--no-warnings")
	}
	if y.Options.NoProgress {
		args = append(args, "--no-progress")
	}
	if y.Options.NoOverwrites {
		args = append(args, "--no-overwrites")
	}
	args = append(args, "--output", "%(id)s", url)
	return args
}

// DownloadCaptions lance yt-dlp dans destDir puis localise le .vtt produit.
func (y *YtDlp) DownloadCaptions(ctx context.Context, url, destDir, lang string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	cmd := exec.CommandContext(ctx, y.exe(), y.BuildArgs(url, lang)...)
	cmd.Dir = destDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp a échoué pour %s: %w, sortie: %s", url, err, strings.TrimSpace(string(out)))
	}

	path, ok := FindCaptionFile(destDir, lang)
	if !ok {
		return "", fmt.Errorf("%w dans %s (langues: %s)", ErrNoCaption, destDir, lang)
	}
	return path, nil
}

// FindCaptionFile cherche un fichier "*.<lang>.vtt" dans dir pour chacune des
// langues de la liste (séparées par des virgules). En cas de candidats
// multiples, le dernier par ordre lexicographique gagne (stable d'un run à
// l'autre).
func FindCaptionFile(dir, langs string) (string, bool) {
	for _, lang := range strings.Split(langs, ",") {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, "*."+lang+".vtt"))
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return matches[len(matches)-1], true
	}
	return "", false
}
