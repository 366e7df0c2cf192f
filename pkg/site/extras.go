// Copyright © 2018 One Concern

package site

import (
	"embed"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/site/status"
)

// DefaultDocsDir holds the markdown sources when the config does not tell otherwise
const DefaultDocsDir = "docs"

//go:embed themes
var themeFiles embed.FS

// extraKinds maps the asset directories of a theme to the config entry listing them
var extraKinds = []struct {
	dir string
	key string
}{
	{dir: "css", key: "extra_css"},
	{dir: "js", key: "extra_javascript"},
}

// Themes lists the themes with a bundled version selector
func Themes() []string {
	entries, _ := themeFiles.ReadDir("themes")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// InstallExtras copies the version selector of a theme into the docs directory,
// then lists its files under extra_css and extra_javascript in the docs config.
//
// The theme set in the config wins over the one passed as argument. Running it
// twice leaves the config unchanged. It returns the installed files, relative to the docs directory.
func InstallExtras(fs afero.Fs, configPath, theme string) ([]string, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	info, err := fs.Stat(configPath)
	if err != nil {
		return nil, errors.Newf("config file %s does not exist", configPath).Wrap(status.ErrConfigNotFound)
	}
	data, err := afero.ReadFile(fs, configPath)
	if err != nil {
		return nil, errors.Newf("cannot read config file %s: %v", configPath, err).Wrap(status.ErrInvalidConfig)
	}

	var doc yaml.MapSlice
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Newf("cannot parse config file %s: %v", configPath, err).Wrap(status.ErrInvalidConfig)
	}

	if configured := themeName(lookup(doc, "theme")); configured != "" {
		theme = configured
	}
	if theme == "" {
		return nil, errors.Newf("no theme in %s, pass one explicitly", configPath).Wrap(status.ErrNoTheme)
	}
	if _, err = themeFiles.ReadDir(path.Join("themes", theme)); err != nil {
		return nil, errors.Newf("no extras for theme %q, known themes are %v", theme, Themes()).Wrap(status.ErrUnknownTheme)
	}

	docsDir, _ := lookup(doc, "docs_dir").(string)
	if docsDir == "" {
		docsDir = DefaultDocsDir
	}
	if !filepath.IsAbs(docsDir) {
		docsDir = filepath.Join(filepath.Dir(configPath), docsDir)
	}

	var installed []string
	for _, kind := range extraKinds {
		entries, err := themeFiles.ReadDir(path.Join("themes", theme, kind.dir))
		if err != nil || len(entries) == 0 {
			continue
		}

		extras := listOf(lookup(doc, kind.key))
		for _, e := range entries {
			rel := path.Join(kind.dir, e.Name())
			content, err := themeFiles.ReadFile(path.Join("themes", theme, rel))
			if err != nil {
				return nil, err
			}
			target := filepath.Join(docsDir, filepath.FromSlash(rel))
			if err = fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, errors.Newf("cannot create %s: %v", filepath.Dir(target), err).Wrap(err)
			}
			if err = afero.WriteFile(fs, target, content, 0o644); err != nil {
				return nil, errors.Newf("cannot write %s: %v", target, err).Wrap(err)
			}
			installed = append(installed, rel)
			if !contains(extras, rel) {
				extras = append(extras, rel)
			}
		}
		doc = set(doc, kind.key, extras)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Newf("cannot encode config file %s: %v", configPath, err).Wrap(status.ErrInvalidConfig)
	}
	if err = afero.WriteFile(fs, configPath, out, info.Mode().Perm()); err != nil {
		return nil, errors.Newf("cannot write config file %s: %v", configPath, err).Wrap(err)
	}
	return installed, nil
}

func lookup(doc yaml.MapSlice, key string) interface{} {
	for _, item := range doc {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value
		}
	}
	return nil
}

func set(doc yaml.MapSlice, key string, value interface{}) yaml.MapSlice {
	for i, item := range doc {
		if k, ok := item.Key.(string); ok && k == key {
			doc[i].Value = value
			return doc
		}
	}
	return append(doc, yaml.MapItem{Key: key, Value: value})
}

// themeName reads the theme either as a plain name or as a mapping with a name
func themeName(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case yaml.MapSlice:
		name, _ := lookup(t, "name").(string)
		return name
	case map[interface{}]interface{}:
		name, _ := t["name"].(string)
		return name
	default:
		return ""
	}
}

func listOf(v interface{}) []interface{} {
	list, _ := v.([]interface{})
	return list
}

func contains(list []interface{}, s string) bool {
	for _, v := range list {
		if str, ok := v.(string); ok && str == s {
			return true
		}
	}
	return false
}
