// Package posts lit le registre des billets du blog (posts.json). Le registre
// est un contrat externe en lecture seule : le pipeline ne le modifie jamais,
// il n'y pioche que le titre, les tags et l'URL vidéo.
package posts

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// tags structurels du blog, jamais des noms de locuteurs
var reservedTags = map[string]struct{}{
	"AI Startup School": {},
	"Y Combinator":      {},
}

// Post est une entrée du registre. Les champs inconnus du JSON sont ignorés.
type Post struct {
	Slug  string   `json:"slug"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	URL   string   `json:"url"`
	Cover string   `json:"cover"`
}

// VideoURL retourne l'URL vidéo de l'entrée : cover en priorité, sinon url.
func (p Post) VideoURL() string {
	if p.Cover != "" {
		return p.Cover
	}
	return p.URL
}

// PrimarySpeaker infère un nom de locuteur de repli pour les cues sans
// attribution : le dernier tag non réservé, sinon le dernier morceau du titre
// découpé sur ":" (ou "："). Retourne "" si rien d'utilisable.
func (p Post) PrimarySpeaker() string {
	for i := len(p.Tags) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(p.Tags[i])
		if candidate == "" {
			continue
		}
		if _, reserved := reservedTags[candidate]; reserved {
			continue
		}
		return candidate
	}

	if p.Title != "" {
		parts := strings.FieldsFunc(p.Title, func(r rune) bool {
			return r == ':' || r == '：'
		})
		for i := len(parts) - 1; i >= 0; i-- {
			if part := strings.TrimSpace(parts[i]); part != "" {
				return part
			}
		}
	}
	return ""
}

// Registry est la table de correspondance slug -> entrée.
type Registry struct {
	bySlug map[string]Post
}

// Load lit et indexe posts.json.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du registre %s: %w", path, err)
	}
	var entries []Post
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse du registre %s: %w", path, err)
	}

	bySlug := make(map[string]Post, len(entries))
	for _, e := range entries {
		if e.Slug == "" {
			continue
		}
		bySlug[e.Slug] = e
	}
	return &Registry{bySlug: bySlug}, nil
}

// Get retourne l'entrée pour un slug.
func (r *Registry) Get(slug string) (Post, bool) {
	p, ok := r.bySlug[slug]
	return p, ok
}

// Slugs retourne tous les slugs connus, triés.
func (r *Registry) Slugs() []string {
	out := make([]string, 0, len(r.bySlug))
	for slug := range r.bySlug {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Len retourne le nombre d'entrées indexées.
func (r *Registry) Len() int {
	return len(r.bySlug)
}
