// Package fsutil : écriture atomique et sauvegarde avant écrasement.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic écrit data dans destPath de manière atomique : écriture
// dans un fichier temporaire du même répertoire puis os.Rename(tmp -> dest).
// Crée les répertoires parents si nécessaire.
func WriteFileAtomic(destPath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(destPath)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// cleanup si échec
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	_ = tmp.Sync() // best-effort
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// permissions best-effort avant le rename
	_ = os.Chmod(tmpName, perm)

	if err := os.Rename(tmpName, destPath); err != nil {
		return fmt.Errorf("rename tmp -> dest: %w", err)
	}
	return nil
}

// BackupOnce copie path vers path+".bak" si le fichier existe et qu'aucune
// sauvegarde n'existe encore. La première version du fichier est ainsi
// conservée quel que soit le nombre de réécritures suivantes.
// Retourne (cheminDeSauvegarde, créée, err).
func BackupOnce(path string) (string, bool, error) {
	backup := path + ".bak"

	if _, err := os.Stat(backup); err == nil {
		return backup, false, nil // déjà sauvegardé
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("stat %s: %w", backup, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil // rien à sauvegarder
		}
		return "", false, fmt.Errorf("lecture de %s: %w", path, err)
	}

	perm := os.FileMode(0o644)
	if info, serr := os.Stat(path); serr == nil {
		perm = info.Mode().Perm()
	}
	if err := WriteFileAtomic(backup, data, perm); err != nil {
		return "", false, fmt.Errorf("écriture de la sauvegarde %s: %w", backup, err)
	}
	return backup, true, nil
}
