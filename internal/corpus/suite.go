package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/ragmark/internal/scorer"
)

// Query is one benchmark query. Truth is nil when the dataset carries no
// relevance judgment for it; such queries are excluded from scoring.
type Query struct {
	ID    string           `json:"id" yaml:"id"`
	Text  string           `json:"text" yaml:"text"`
	Type  string           `json:"type,omitempty" yaml:"type,omitempty"`
	Truth *scorer.Judgment `json:"truth,omitempty" yaml:"truth,omitempty"`
}

// Suite is a named collection of benchmark queries.
type Suite struct {
	Name    string  `json:"name" yaml:"name"`
	Queries []Query `json:"queries" yaml:"queries"`
}

// suiteSchema validates the JSON suite format before decoding, so malformed
// datasets fail with a field-level message instead of a partial struct.
var suiteSchema = map[string]any{
	"type":     "object",
	"required": []string{"name", "queries"},
	"properties": map[string]any{
		"name": map[string]any{"type": "string", "minLength": 1},
		"queries": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"id", "text"},
				"properties": map[string]any{
					"id":   map[string]any{"type": "string", "minLength": 1},
					"text": map[string]any{"type": "string", "minLength": 1},
					"type": map[string]any{"type": "string"},
					"truth": map[string]any{
						"type":     "object",
						"required": []string{"doc_id", "section_id"},
						"properties": map[string]any{
							"doc_id":     map[string]any{"type": "string", "minLength": 1},
							"section_id": map[string]any{"type": "integer", "minimum": 0},
						},
					},
				},
			},
		},
	},
}

// LoadSuite reads a query suite from a JSON or YAML file, chosen by
// extension.
func LoadSuite(path string) (Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("read query suite %s: %w", path, err)
	}

	var suite Suite
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &suite); err != nil {
			return Suite{}, fmt.Errorf("parse query suite %s: %w", path, err)
		}
	default:
		if err := validateSuiteJSON(raw); err != nil {
			return Suite{}, fmt.Errorf("invalid query suite %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &suite); err != nil {
			return Suite{}, fmt.Errorf("parse query suite %s: %w", path, err)
		}
	}

	if len(suite.Queries) == 0 {
		return Suite{}, fmt.Errorf("query suite %s contains no queries", path)
	}
	seen := make(map[string]struct{}, len(suite.Queries))
	for _, q := range suite.Queries {
		if _, dup := seen[q.ID]; dup {
			return Suite{}, fmt.Errorf("query suite %s has duplicate query id %q", path, q.ID)
		}
		seen[q.ID] = struct{}{}
	}

	return suite, nil
}

func validateSuiteJSON(raw []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(suiteSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate suite: %w", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("suite failed validation: %s", strings.Join(messages, "; "))
	}
	return nil
}
