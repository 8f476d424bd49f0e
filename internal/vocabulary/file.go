package vocabulary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AioliaTech/api-ia/internal/domain"
	"github.com/AioliaTech/api-ia/internal/normalize"
)

// File is the on-disk vocabulary format (fipe_vocabulary.json). Brands,
// models and versions come from the FIPE crawl; the remaining lists are
// optional extensions merged on top of the built-in dictionaries.
type File struct {
	Brands        []string          `json:"marcas"`
	Models        []string          `json:"modelos"`
	Versions      []string          `json:"versoes"`
	BodyTypes     []string          `json:"categorias,omitempty"`
	Colors        []string          `json:"cores,omitempty"`
	Fuels         []string          `json:"combustiveis,omitempty"`
	Transmissions []string          `json:"cambios,omitempty"`
	Engines       []string          `json:"motores,omitempty"`
	Options       []string          `json:"opcionais,omitempty"`
	ModelMap      map[string]string `json:"mapeamento_categorias,omitempty"`
}

// ReadFile decodes a vocabulary file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.DataError("vocabulary file not found: "+path, domain.ErrVocabularyMissing)
		}
		return nil, domain.IOError("read vocabulary file", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, domain.DataError("parse vocabulary file", err)
	}
	return &f, nil
}

// WriteFile writes f as indented JSON, replacing path atomically.
func WriteFile(path string, f *File) error {
	f.Sort()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal vocabulary: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".vocabulary-*.json")
	if err != nil {
		return domain.IOError("create temp vocabulary file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.IOError("write vocabulary file", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.IOError("close vocabulary file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return domain.IOError("replace vocabulary file", err)
	}
	return nil
}

// Sort orders and de-duplicates every list, case-insensitively.
func (f *File) Sort() {
	for _, list := range []*[]string{
		&f.Brands, &f.Models, &f.Versions, &f.BodyTypes, &f.Colors,
		&f.Fuels, &f.Transmissions, &f.Engines, &f.Options,
	} {
		*list = dedupeSorted(*list)
	}
}

// Merge adds f's entries into b. FIPE brand names such as "GM - Chevrolet"
// resolve to their last segment so "chevrolet" and "gm" both match.
func (f *File) Merge(b *Builder) *Builder {
	for _, brand := range f.Brands {
		parts := strings.Split(brand, " - ")
		canonical := strings.TrimSpace(parts[len(parts)-1])
		variants := []string{brand}
		for _, p := range parts[:len(parts)-1] {
			variants = append(variants, strings.TrimSpace(p))
		}
		b.Add(Brand, canonical, variants...)
	}
	for _, m := range f.Models {
		b.Add(Model, m)
	}
	for _, v := range f.Versions {
		b.Add(Version, v)
	}
	for cat, list := range map[Category][]string{
		BodyType:     f.BodyTypes,
		Color:        f.Colors,
		Fuel:         f.Fuels,
		Transmission: f.Transmissions,
		Engine:       f.Engines,
		Option:       f.Options,
	} {
		for _, term := range list {
			b.Add(cat, term)
		}
	}
	for model, category := range f.ModelMap {
		b.MapModel(model, category)
	}
	return b
}

// Load reads a vocabulary file and builds an Index from the built-in
// dictionaries plus the file's entries. A missing file yields the built-in
// index together with a data error the caller may choose to only log.
func Load(path string) (*Index, error) {
	f, err := ReadFile(path)
	if err != nil {
		return Default(), err
	}
	return f.Merge(DefaultBuilder()).Build(), nil
}

func dedupeSorted(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := normalize.Text(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return normalize.Text(out[i]) < normalize.Text(out[j])
	})
	return out
}
