package validate

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// blueprintSchema is the structural contract for an incoming Blueprint
// document. Timeline semantics (ordering, overlap) are checked separately by
// CheckStructure; the schema catches malformed documents before decoding.
const blueprintSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["format", "durationSeconds", "fps", "shots"],
  "properties": {
    "format": {"type": "string", "minLength": 1},
    "durationSeconds": {"type": "number", "exclusiveMinimum": 0},
    "fps": {"type": "integer", "minimum": 1},
    "music": {"type": "string"},
    "voiceoverScript": {"type": "string"},
    "shots": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["shotId", "timeStart", "timeEnd", "shotType", "sceneDescription"],
        "properties": {
          "shotId": {"type": "string", "minLength": 1},
          "timeStart": {"type": "number", "minimum": 0},
          "timeEnd": {"type": "number", "exclusiveMinimum": 0},
          "shotType": {"type": "string"},
          "cameraMovement": {"type": "string"},
          "sceneDescription": {"type": "string"},
          "onScreenText": {
            "type": "object",
            "required": ["text"],
            "properties": {
              "text": {"type": "string"},
              "position": {"type": "string"}
            }
          },
          "visualSource": {"type": "string"},
          "beat": {"type": "string"},
          "patternInterrupts": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var blueprintSchemaLoader = gojsonschema.NewStringLoader(blueprintSchema)

// BlueprintDocument validates a raw blueprint JSON document against the
// schema. The returned error joins every schema violation.
func BlueprintDocument(raw []byte) error {
	result, err := gojsonschema.Validate(blueprintSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("blueprint schema: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("blueprint schema: %s", strings.Join(msgs, "; "))
}
