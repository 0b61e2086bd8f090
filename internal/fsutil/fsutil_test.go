package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.md")

	if err := WriteFileAtomic(dest, []byte("premier"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "premier" {
		t.Fatalf("contenu = %q, attendu %q", got, "premier")
	}

	// une réécriture remplace le contenu sans laisser de fichier temporaire
	if err := WriteFileAtomic(dest, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic (réécriture): %v", err)
	}
	got, _ = os.ReadFile(dest)
	if string(got) != "second" {
		t.Fatalf("contenu = %q, attendu %q", got, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("%d entrées dans le répertoire, attendu 1", len(entries))
	}
}

func TestBackupOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")

	// fichier absent : rien à sauvegarder
	if _, created, err := BackupOnce(path); err != nil || created {
		t.Fatalf("BackupOnce(absent) = created=%v err=%v, attendu false nil", created, err)
	}

	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	backup, created, err := BackupOnce(path)
	if err != nil {
		t.Fatalf("BackupOnce: %v", err)
	}
	if !created {
		t.Fatal("première sauvegarde non créée")
	}
	if backup != path+".bak" {
		t.Fatalf("chemin de sauvegarde = %q", backup)
	}
	got, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("ReadFile(backup): %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("contenu de la sauvegarde = %q", got)
	}

	// la sauvegarde existante n'est jamais écrasée
	if err := os.WriteFile(path, []byte("modifié"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, created, err := BackupOnce(path); err != nil || created {
		t.Fatalf("BackupOnce(déjà sauvegardé) = created=%v err=%v", created, err)
	}
	got, _ = os.ReadFile(backup)
	if string(got) != "original" {
		t.Fatalf("sauvegarde écrasée : %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "simple", want: "simple"},
		{in: "  espaces   multiples  ", want: "espaces multiples"},
		{in: `a/b\c:d`, want: "a-b-c-d"},
		{in: "fin de points...", want: "fin de points"},
		{in: "", want: "untitled"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, attendu %q", tt.in, got, tt.want)
		}
	}
}
