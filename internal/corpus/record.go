package corpus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/haneol/mundap/internal/evaluate"
)

// Record is one labeled training example. Payload-identical copies live in
// the sqlite corpus table and in the exported JSONL files.
type Record struct {
	PassageID string          `json:"passage_id"`
	Source    map[string]any  `json:"source,omitempty"`
	Text      string          `json:"text"`
	Claim     string          `json:"claim"`
	Evidence  []string        `json:"evidence"`
	Reasoning string          `json:"reasoning"`
	Label     string          `json:"label"`
	Diag      string          `json:"diag"`
	Scores    evaluate.Scores `json:"scores"`
	Meta      Meta            `json:"meta"`
}

// Meta records how and when the example was produced.
type Meta struct {
	GenMode   string `json:"gen_mode"`
	CreatedAt int64  `json:"created_at"`
}

const recordSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["passage_id", "text", "claim", "evidence", "reasoning", "label", "diag", "scores", "meta"],
	"properties": {
		"passage_id": {"type": "string", "minLength": 1},
		"source": {"type": "object"},
		"text": {"type": "string", "minLength": 1},
		"claim": {"type": "string", "minLength": 1},
		"evidence": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"minItems": 1
		},
		"reasoning": {"type": "string", "minLength": 1},
		"label": {"enum": ["GOOD", "WEAK_LINK", "OFF_PATH", "INSUFFICIENT_REASONING"]},
		"diag": {"enum": ["OK", "TOO_SHORT_OR_THIN", "OFF_PATH", "NO_GROUNDING", "MISSING_WHY", "GENERIC"]},
		"scores": {
			"type": "object",
			"required": ["qa_score", "link_score"],
			"properties": {
				"qa_score": {"type": "number", "minimum": 0, "maximum": 1},
				"link_score": {"type": "number", "minimum": 0, "maximum": 1},
				"length_runes": {"type": "integer", "minimum": 0},
				"length_tokens": {"type": "integer", "minimum": 0},
				"evidence_count": {"type": "integer", "minimum": 0}
			}
		},
		"meta": {
			"type": "object",
			"required": ["gen_mode", "created_at"],
			"properties": {
				"gen_mode": {"enum": ["good", "weak_no_grounding", "weak_missing_why", "weak_generic", "short"]},
				"created_at": {"type": "integer"}
			}
		}
	}
}`

var (
	recordSchemaOnce sync.Once
	recordSchema     *jsonschema.Schema
	recordSchemaErr  error
)

func compiledRecordSchema() (*jsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw bytes.
		var parsed any
		if err := json.Unmarshal([]byte(recordSchemaJSON), &parsed); err != nil {
			recordSchemaErr = fmt.Errorf("parse record schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://corpus-record.json"
		if err := c.AddResource(url, parsed); err != nil {
			recordSchemaErr = fmt.Errorf("add record schema: %w", err)
			return
		}
		recordSchema, recordSchemaErr = c.Compile(url)
	})
	return recordSchema, recordSchemaErr
}

// ValidateBytes checks one serialized record against the record schema.
func ValidateBytes(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledRecordSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate serializes the record and checks it against the record schema.
func (r Record) Validate() error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return ValidateBytes(raw)
}
