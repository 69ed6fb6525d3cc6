package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// TemplateExtensions are the file types Tailwind scans for class names.
var TemplateExtensions = []string{".html", ".txt", ".tmpl", ".gohtml"}

// TemplateFiles walks every template directory and returns the template files
// found, in walk order. Missing directories are skipped.
func (c Config) TemplateFiles() ([]string, error) {
	files := []string{}
	for _, dir := range c.TemplateDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isTemplate(p) {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not list templates in %s", dir)
		}
	}
	return files, nil
}

func isTemplate(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range TemplateExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
