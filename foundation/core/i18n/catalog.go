// File: catalog.go
// Title: Translation Catalog
// Description: Holds language-keyed nested translation trees loaded from TOML
//              or YAML files and resolves dotted keys against them. The catalog
//              is pure data; current-language state and change notification
//              live with its users.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2025-10-19 v0.2.0: Split the Manager into a stateless Catalog, added fs.FS loading

package i18n

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
	"github.com/msto63/leitstand/foundation/utils/stringx"
)

// Format represents the language file format
type Format int

const (
	// FormatTOML represents TOML format
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath detects the format from a file extension
func FormatFromPath(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return FormatTOML, false
	}
}

// Tree is one language's nested dictionary
type Tree map[string]interface{}

// Parse decodes a dictionary in the given format
func Parse(data []byte, format Format) (Tree, error) {
	tree := make(Tree)
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &tree)
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	default:
		err = fmt.Errorf("unsupported format %d", format)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse dictionary").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("i18n.Parse").
			WithDetail("format", format.String())
	}
	return tree, nil
}

// Catalog stores one Tree per language code
type Catalog struct {
	mu    sync.RWMutex
	trees map[string]Tree
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{trees: make(map[string]Tree)}
}

// Add replaces the dictionary of lang. A nil tree removes the language.
func (c *Catalog) Add(lang string, tree Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tree == nil {
		delete(c.trees, lang)
		return
	}
	c.trees[lang] = tree
}

// LoadFile loads a single dictionary file. The language code is the file
// name without extension, e.g. "de.toml" -> "de".
func (c *Catalog) LoadFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to read dictionary").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.LoadFile").
			WithDetail("path", filePath)
	}
	return c.load(filepath.Base(filePath), data)
}

// LoadDir loads every dictionary file of dir and returns the languages found
func (c *Catalog) LoadDir(dir string) ([]string, error) {
	return c.LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads every dictionary file of dir within fsys. Files that fail to
// parse are reported after the remaining files have been loaded.
func (c *Catalog) LoadFS(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read locales directory").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.LoadFS").
			WithDetail("directory", dir)
	}

	var loaded []string
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := FormatFromPath(entry.Name()); !ok {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err == nil {
			var lang string
			lang, err = c.load(entry.Name(), data)
			if err == nil {
				loaded = append(loaded, lang)
				continue
			}
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	sort.Strings(loaded)
	return loaded, firstErr
}

func (c *Catalog) load(name string, data []byte) (string, error) {
	format, ok := FormatFromPath(name)
	lang := LanguageFromFile(name)
	if !ok || stringx.IsBlank(lang) {
		return "", mdwerror.New("not a dictionary file").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("i18n.load").
			WithDetail("file", name)
	}
	tree, err := Parse(data, format)
	if err != nil {
		return "", mdwerror.Wrap(err, "failed to load dictionary").WithDetail("file", name)
	}
	c.Add(lang, tree)
	return lang, nil
}

// LanguageFromFile derives the language code from a dictionary file name
func LanguageFromFile(name string) string {
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Has reports whether a dictionary exists for lang
func (c *Catalog) Has(lang string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.trees[lang]
	return ok
}

// Languages returns the language codes in sorted order
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	langs := make([]string, 0, len(c.trees))
	for lang := range c.trees {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Lookup resolves a dotted key in the dictionary of lang. Only leaves resolve;
// a key naming a subtree or crossing a leaf is not found.
func (c *Catalog) Lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	tree, ok := c.trees[lang]
	c.mu.RUnlock()
	if !ok || key == "" {
		return "", false
	}
	return lookup(tree, key)
}

func lookup(tree map[string]interface{}, key string) (string, bool) {
	current := tree
	parts := strings.Split(key, ".")
	for i, part := range parts {
		value, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			switch v := value.(type) {
			case string:
				return v, true
			case map[string]interface{}, Tree, []interface{}, nil:
				return "", false
			default:
				return fmt.Sprint(v), true
			}
		}
		switch next := value.(type) {
		case map[string]interface{}:
			current = next
		case Tree:
			current = next
		default:
			return "", false
		}
	}
	return "", false
}

// Keys returns every dotted leaf key of lang in sorted order
func (c *Catalog) Keys(lang string) []string {
	c.mu.RLock()
	tree, ok := c.trees[lang]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	keys := collectKeys(tree, "")
	sort.Strings(keys)
	return keys
}

func collectKeys(data map[string]interface{}, prefix string) []string {
	var keys []string
	for k, v := range data {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]interface{}:
			keys = append(keys, collectKeys(nested, full)...)
		case Tree:
			keys = append(keys, collectKeys(nested, full)...)
		default:
			keys = append(keys, full)
		}
	}
	return keys
}
