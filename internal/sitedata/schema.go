package sitedata

import (
	"embed"
	"sync"

	"github.com/goliatone/go-newsroom/internal/validation"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaAds         = "ads.json"
	schemaMenus       = "menus.json"
	schemaContact     = "siteContact.json"
	schemaHomepage    = "homepage.json"
	schemaHead        = "head.json"
	schemaEditorPicks = "editor_picks.json"
	schemaCategory    = "category.json"
	schemaTaxonomy    = "taxonomy.json"
)

var (
	schemasOnce sync.Once
	schemas     map[string]*validation.Schema
)

func schemaFor(name string) *validation.Schema {
	schemasOnce.Do(func() {
		entries, err := schemaFS.ReadDir("schemas")
		if err != nil {
			panic(err)
		}
		schemas = make(map[string]*validation.Schema, len(entries))
		for _, entry := range entries {
			document, err := schemaFS.ReadFile("schemas/" + entry.Name())
			if err != nil {
				panic(err)
			}
			schemas[entry.Name()] = validation.MustCompile(entry.Name(), document)
		}
	})
	return schemas[name]
}
