// Package sqltemplate locates SQL templates by name prefix and renders them.
package sqltemplate

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultFolder is the folder, relative to the working directory, searched
// when no folder is configured.
const DefaultFolder = "templates"

const embeddedFolder = "embedded:templates"

var (
	ErrTemplateNotFound = errors.New("template not found")
	// ErrRender marks templates that fail to parse or execute
	ErrRender = errors.New("template render failed")
)

//go:embed templates/*.sql
var embedded embed.FS

// Template loads SQL templates from a folder
type Template struct {
	mu     sync.RWMutex
	folder string
	fsys   fs.FS
}

// New creates a Template reading from folder. With an empty folder it uses
// ./templates when that directory exists and the built-in templates otherwise.
func New(folder string) *Template {
	t := &Template{}
	t.SetFolder(folder)
	return t
}

// SetFolder points the loader at another folder
func (t *Template) SetFolder(folder string) {
	folder, fsys := resolveFolder(folder)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.folder = folder
	t.fsys = fsys
}

// Folder returns the folder templates are read from
func (t *Template) Folder() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.folder
}

func resolveFolder(folder string) (string, fs.FS) {
	if folder != "" {
		return folder, os.DirFS(folder)
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, DefaultFolder)
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, os.DirFS(local)
		}
	}

	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(err)
	}
	return embeddedFolder, sub
}

// List returns every template file as a sorted, slash-separated path.
// A missing folder has no templates.
func (t *Template) List() ([]string, error) {
	t.mu.RLock()
	fsys := t.fsys
	t.mu.RUnlock()

	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates in %s: %w", t.Folder(), err)
	}

	sort.Strings(files)
	return files, nil
}

// Find returns the first template whose path starts with name
func (t *Template) Find(name string) (string, error) {
	files, err := t.List()
	if err != nil {
		return "", err
	}
	for _, file := range files {
		if strings.HasPrefix(file, name) {
			return file, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in %s", ErrTemplateNotFound, name, t.Folder())
}

// Load renders the first template matching name. The template sees data as
// .data and every entry of vars under its own key.
func (t *Template) Load(name string, data any, vars map[string]any) (string, error) {
	file, err := t.Find(name)
	if err != nil {
		return "", err
	}

	t.mu.RLock()
	fsys := t.fsys
	t.mu.RUnlock()

	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", file, err)
	}

	tmpl, err := template.New(file).Funcs(sprig.TxtFuncMap()).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("%w: parse %s: %w", ErrRender, file, err)
	}

	root := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		root[k] = v
	}
	root["data"] = data

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, root); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, file, err)
	}
	return buf.String(), nil
}
