package index

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// jsonSchema is the self-describing shape spec section 6 illustrates: a
// header (v, variant, created_at, desc, flatten_root) followed by files
// and, for full indices, a per-file region table. Validating against it
// before trusting the unmarshaled struct catches a hand-edited or
// truncated self.index before it silently mis-drives a verdict.
const jsonSchema = `{
  "type": "object",
  "required": ["v", "variant", "created_at", "desc", "files", "hash"],
  "properties": {
    "v": {"type": "string"},
    "variant": {"type": "string", "enum": ["tiny", "full"]},
    "created_at": {"type": "string"},
    "desc": {
      "type": "object",
      "required": ["bin_path"],
      "properties": {"bin_path": {"type": "string"}}
    },
    "flatten_root": {"type": ["string", "null"]},
    "files": {"type": "array", "items": {"type": "string"}},
    "regions": {"type": "object"},
    "hash": {"type": "string"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(jsonSchema)

// ValidateSchema checks raw JSON bytes against the index schema.
func ValidateSchema(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("index does not match schema: %v", msgs)
	}
	return nil
}
