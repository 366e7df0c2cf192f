// Copyright © 2018 One Concern

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oneconcern/docshelf/pkg/versions"
)

// versionLine is exposed to list templates
type versionLine struct {
	Version    string
	Title      string
	Aliases    []string
	Properties interface{}
}

func newVersionLine(info *versions.VersionInfo) versionLine {
	return versionLine{
		Version:    info.Version.String(),
		Title:      info.Title,
		Aliases:    info.Aliases.Sorted(),
		Properties: info.Properties,
	}
}

var versionLineTemplate func(flagsT) *template.Template

func init() {
	versionLineTemplate = func(opts flagsT) *template.Template {
		if opts.list.template != "" {
			t, err := template.New("list line").Funcs(listFuncs).Parse(opts.list.template)
			if err != nil {
				wrapFatalln("invalid template", err)
			}
			return t
		}
		const listLineTemplateString = `{{ if ne .Title .Version }}{{ printf "%q" .Title }} ({{ .Version }}){{ else }}{{ .Version }}{{ end }}` +
			`{{ with .Aliases }} [{{ aliases . }}]{{ end }}`
		return template.Must(template.New("list line").Funcs(listFuncs).Parse(listLineTemplateString))
	}
}

var listFuncs = template.FuncMap{
	"aliases": func(aliases []string) string {
		colored := make([]string, 0, len(aliases))
		for _, a := range aliases {
			colored = append(colored, color.CyanString(a))
		}
		return strings.Join(colored, ", ")
	},
}

func applyVersionTemplate(t *template.Template, info *versions.VersionInfo) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, newVersionLine(info)); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	logStdOut("%s\n", buf.String())
	return nil
}

func listVersions(ctx context.Context, identifier string) error {
	shelf, _ := prepareShelf(ctx, false, false)
	all, err := shelf.ListVersions(ctx)
	if err != nil {
		return err
	}

	infos := all.List()
	if identifier != "" {
		key, err := all.FindStrict(identifier)
		if err != nil {
			return err
		}
		info, _ := all.Get(key.Version)
		infos = []*versions.VersionInfo{info}
	}

	if docshelfFlags.list.json {
		var data []byte
		if identifier != "" {
			data, err = json.Marshal(infos[0])
		} else {
			data, err = json.Marshal(all)
		}
		if err != nil {
			return err
		}
		logStdOut("%s\n", data)
		return nil
	}

	t := versionLineTemplate(docshelfFlags)
	for _, info := range infos {
		if err = applyVersionTemplate(t, info); err != nil {
			return err
		}
	}
	return nil
}

var listCmd = &cobra.Command{
	Use:     "list [IDENTIFIER]",
	Short:   "Get a list of deployed versions",
	Long:    `List the deployed versions, newest first, or the version designated by IDENTIFIER.`,
	Aliases: []string{"ls"},
	Example: `% docshelf list
"Release 2.0" (2.0) [latest]
1.0`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var identifier string
		if len(args) > 0 {
			identifier = args[0]
		}
		if err := listVersions(context.Background(), identifier); err != nil {
			wrapFatalln("cannot list versions", err)
			return
		}
	},
}

func init() {
	addJSONFlag(listCmd, &docshelfFlags.list.json)
	addFormatFlag(listCmd)

	rootCmd.AddCommand(listCmd)
}
