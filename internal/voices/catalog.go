// Package voices discovers installed voice models and resolves a
// language code to the voice an engine should load.
package voices

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// UnknownLanguage is the prefix given to voice files whose name has no language part.
const UnknownLanguage = "unknown"

// Voice is one installed model file.
type Voice struct {
	// Name is the file name, e.g. "en_US-ryan-high.onnx".
	Name string

	// Language is the inferred language prefix, e.g. "en".
	Language string

	// BestEffort is set when the name had no "_" or "-" separator.
	BestEffort bool
}

// InferLanguage extracts a language prefix from a voice file name by
// splitting on the first "_" or "-", whichever comes first. Names without
// either separator keep their stem as a best-effort prefix.
func InferLanguage(filename string) (lang string, bestEffort bool) {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	i := strings.IndexAny(stem, "_-")
	switch {
	case i > 0:
		return strings.ToLower(stem[:i]), false
	case i == 0 || stem == "":
		return UnknownLanguage, true
	default:
		return strings.ToLower(stem), true
	}
}

// Catalog maps language prefixes to installed voices.
// It is built once and never modified, so it is safe to share.
type Catalog struct {
	dir    string
	byLang map[string][]Voice
}

// Scan builds a catalog from the files in dir ending in ext.
// A missing directory yields an empty catalog.
func Scan(dir, ext string) (*Catalog, error) {
	c := &Catalog{dir: dir, byLang: map[string][]Voice{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		lang, bestEffort := InferLanguage(e.Name())
		c.byLang[lang] = append(c.byLang[lang], Voice{
			Name:       e.Name(),
			Language:   lang,
			BestEffort: bestEffort,
		})
	}

	for lang := range c.byLang {
		vs := c.byLang[lang]
		sort.Slice(vs, func(i, j int) bool { return vs[i].Name < vs[j].Name })
	}
	return c, nil
}

// NewCatalog builds a catalog from an explicit language to file names map.
func NewCatalog(dir string, entries map[string][]string) *Catalog {
	c := &Catalog{dir: dir, byLang: map[string][]Voice{}}
	for lang, names := range entries {
		for _, name := range names {
			c.byLang[lang] = append(c.byLang[lang], Voice{Name: name, Language: lang})
		}
	}
	return c
}

// Dir returns the scanned directory.
func (c *Catalog) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Languages returns every language with at least one voice, sorted.
func (c *Catalog) Languages() []string {
	if c == nil {
		return nil
	}
	langs := make([]string, 0, len(c.byLang))
	for lang, vs := range c.byLang {
		if len(vs) > 0 {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// Voices returns the voice names for lang.
func (c *Catalog) Voices(lang string) []string {
	if c == nil {
		return nil
	}
	vs := c.byLang[lang]
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

// Len returns the total number of voices.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, vs := range c.byLang {
		n += len(vs)
	}
	return n
}

// Path returns the full path of a voice file.
func (c *Catalog) Path(name string) string {
	return filepath.Join(c.Dir(), name)
}
