// Schema Generator
//
// Generates JSON Schema files from the API types for client-side validation.
// The Go types are the source of truth for the shapes exchanged with the frontend.
//
// Usage:
//
//	go run cmd/schema-gen/main.go [output-dir]
//
// Output (default output-dir is ./schemas):
//
//	schemas/budgets.json
//	schemas/imports.json
//	schemas/session.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/presupuestos/budget-service/internal/auth"
	"github.com/presupuestos/budget-service/internal/badges"
	"github.com/presupuestos/budget-service/internal/budgets"
	"github.com/presupuestos/budget-service/internal/handlers"
	"github.com/presupuestos/budget-service/internal/importer"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/presupuestos/budget-service/internal/types"
	"github.com/shopspring/decimal"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := "schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	groups := []SchemaGroup{
		{
			Name: "budgets",
			Types: []any{
				// Request types
				handlers.ListBudgetsRequest{},
				budgets.Patch{},
				handlers.FinalizeRequest{},
				types.Contact{},
				// Response types
				types.Quote{},
				types.Item{},
				types.StageEntry{},
				types.ActionEntry{},
				budgets.Stats{},
				storage.ContactRecord{},
			},
			Output: "budgets.json",
		},
		{
			Name: "imports",
			Types: []any{
				// Request types
				handlers.ImportForm{},
				handlers.ImportRequest{},
				types.ImportOptions{},
				handlers.ListImportLogsRequest{},
				// Response types
				importer.Summary{},
				types.SkippedRow{},
				types.ImportLog{},
			},
			Output: "imports.json",
		},
		{
			Name: "session",
			Types: []any{
				// Request types
				handlers.LoginRequest{},
				handlers.GenerateReportRequest{},
				// Response types
				auth.Session{},
				badges.UserBadge{},
				handlers.ErrorResponse{},
				handlers.HealthResponse{},
			},
			Output: "session.json",
		},
	}

	for _, group := range groups {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// mapTypes describes types whose JSON form differs from their Go structure
func mapTypes(t reflect.Type) *jsonschema.Schema {
	if t == decimalType {
		// decimals are serialized as quoted strings
		return &jsonschema.Schema{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?$`}
	}
	return nil
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
		Mapper:         mapTypes,
	}

	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		// Extract type name from $ref like "#/$defs/Quote"
		typeName := ""
		if schema.Ref != "" {
			typeName = filepath.Base(schema.Ref)
		}

		for name, def := range schema.Definitions {
			definitions[name] = def
		}

		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://presupuestos.app/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
