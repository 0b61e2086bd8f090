package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// struct pour les paramètres de configuration
type Config struct {
	// Chemins
	PostsJSON string `yaml:"posts_json"`
	PostsDir  string `yaml:"posts_dir"`
	CacheDir  string `yaml:"cache_dir"`

	// Journalisation
	LogLevel string `yaml:"log_level"`

	// Traduction
	Translation struct {
		Enabled         bool    `yaml:"enabled"`
		APIKey          string  `yaml:"api_key"`
		Model           string  `yaml:"model"`
		BatchSize       int     `yaml:"batch_size"`
		RetryLimit      int     `yaml:"retry_limit"`
		MinChineseRatio float64 `yaml:"min_chinese_ratio"`
	} `yaml:"translation"`

	// Résumé (généré ou collé depuis le presse-papiers)
	Summary struct {
		Enabled             bool `yaml:"enabled"`
		Clipboard           bool `yaml:"clipboard"`
		ClipboardTimeoutSec int  `yaml:"clipboard_timeout_sec"`
	} `yaml:"summary"`

	// yt-dlp
	YtDlp struct {
		Name         string `yaml:"name"`
		Path         string `yaml:"path"`
		Lang         string `yaml:"lang"`
		FallbackLang string `yaml:"fallback_lang"`
		ShowWarnings bool   `yaml:"show_warnings"`

		// ResolvedPath contient le chemin effectif vers l'exécutable
		ResolvedPath string `yaml:"-"`
	} `yaml:"yt_dlp"`

	configFilePath string
}

// configuration par défaut
func defaultConfig() *Config {
	c := &Config{}

	// Chemins
	c.PostsJSON = "public/posts/posts.json"
	c.PostsDir = "public/posts"
	c.CacheDir = ".cache/postscribe"

	// Journalisation
	c.LogLevel = "info"

	// Traduction
	c.Translation.Enabled = true
	c.Translation.APIKey = ""
	c.Translation.Model = "gpt-4o-mini"
	c.Translation.BatchSize = 20
	c.Translation.RetryLimit = 3
	c.Translation.MinChineseRatio = 0.5

	// Résumé
	c.Summary.Enabled = true
	c.Summary.Clipboard = false
	c.Summary.ClipboardTimeoutSec = 120

	// yt-dlp
	c.YtDlp.Name = "yt-dlp"
	c.YtDlp.Path = ""
	c.YtDlp.Lang = "en"
	c.YtDlp.FallbackLang = "en-US,en-GB"
	c.YtDlp.ShowWarnings = false

	return c
}

// Load lit la config ; si le fichier n'existe pas, les valeurs par défaut
// sont retournées telles quelles.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "postscribe.yaml"
	}

	cfg := defaultConfig()

	// fichier absent -> uniquement les valeurs par défaut
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.normalizeConfig()
		return cfg, nil
	}

	// lire le YAML brut et déserialiser dans cfg (les champs présents écraseront les defaults)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// On déserialise dans cfg initialisé : les champs absents conservent les valeurs par défaut.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	cfg.normalizeConfig()

	return cfg, nil
}

func (c *Config) normalizeConfig() {
	// Nettoyage des chemins
	c.PostsJSON = filepath.Clean(c.PostsJSON)
	c.PostsDir = filepath.Clean(c.PostsDir)
	c.CacheDir = filepath.Clean(c.CacheDir)

	c.LogLevel = strings.TrimSpace(strings.ToLower(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	// bornes de la traduction
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Model == "" {
		c.Translation.Model = "gpt-4o-mini"
	}
	if c.Translation.BatchSize <= 0 {
		c.Translation.BatchSize = 20
	}
	if c.Translation.RetryLimit <= 0 {
		c.Translation.RetryLimit = 3
	}
	if c.Translation.MinChineseRatio <= 0 || c.Translation.MinChineseRatio > 1 {
		c.Translation.MinChineseRatio = 0.5
	}

	if c.Summary.ClipboardTimeoutSec <= 0 {
		c.Summary.ClipboardTimeoutSec = 120
	}

	// langues des sous-titres
	c.YtDlp.Lang = strings.TrimSpace(c.YtDlp.Lang)
	if c.YtDlp.Lang == "" {
		c.YtDlp.Lang = "en"
	}
	c.YtDlp.FallbackLang = strings.TrimSpace(c.YtDlp.FallbackLang)

	// centraliser la résolution/normalisation de yt-dlp
	c.ResolveYtDlpPath()
}

// ResolveAPIKey retourne la clé API effective : drapeau de commande, puis
// fichier de configuration, puis variable d'environnement OPENAI_API_KEY.
func (c *Config) ResolveAPIKey(flagKey string) string {
	if k := strings.TrimSpace(flagKey); k != "" {
		return k
	}
	if k := strings.TrimSpace(c.Translation.APIKey); k != "" {
		return k
	}
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}

// ResolveYtDlpPath normalise le nom et résout le chemin complet vers l'exécutable.
// Appeler après avoir modifié cfg.YtDlp.Name ou cfg.YtDlp.Path.
func (c *Config) ResolveYtDlpPath() {
	if c == nil {
		return
	}

	// Normaliser le nom et ajouter .exe sur Windows si nécessaire
	c.YtDlp.Name = strings.TrimSpace(c.YtDlp.Name)
	if c.YtDlp.Name == "" {
		c.YtDlp.Name = "yt-dlp"
	}

	// ajoute .exe si nécessaire
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(c.YtDlp.Name), ".exe") {
		c.YtDlp.Name = c.YtDlp.Name + ".exe"
	}

	// Résolution du chemin
	// si cfg.Path est vide -> le nom nu, résolu via le PATH
	exeName := c.YtDlp.Name
	cfgPath := strings.TrimSpace(c.YtDlp.Path)
	if cfgPath == "" {
		c.YtDlp.ResolvedPath = exeName
		return
	}
	cleanPath := filepath.Clean(cfgPath)

	// si le chemin fourni finit déjà par l'exécutable -> on l'utilise
	if filepath.Base(cleanPath) == exeName {
		c.YtDlp.ResolvedPath = cleanPath
	} else {
		// sinon on considère cfgPath comme un répertoire et on y joint l'exe
		c.YtDlp.ResolvedPath = filepath.Join(cleanPath, exeName)
	}
}
