// Package collections creates the PocketBase collections backing stored
// parse results.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the pricing_documents collection
// exists. The parsed document and its validation report are stored as JSON
// payloads; the scalar columns exist for listing and filtering.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "pricing_documents", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "source_file", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "mode",
			Required:  true,
			Values:    []string{"strict", "lenient"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"PASS", "FAIL"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "currency",
			Required:  false,
			Values:    []string{"USD", "CAD"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "document_total", Required: false})
		c.Fields.Add(&core.NumberField{Name: "table_count", Required: false})
		c.Fields.Add(&core.JSONField{Name: "payload", MaxSize: 5 << 20})
		c.Fields.Add(&core.JSONField{Name: "report", MaxSize: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
