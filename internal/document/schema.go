package document

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://planerly.app/schemas/document.schema.json"

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://planerly.app/schemas/document.schema.json",
  "type": "object",
  "required": ["projects"],
  "properties": {
    "schema_version": {"type": "integer", "minimum": 1},
    "current_project_id": {"type": "string"},
    "projects": {"type": "array", "items": {"$ref": "#/$defs/project"}}
  },
  "$defs": {
    "id": {"type": "string", "minLength": 1},
    "project": {
      "type": "object",
      "required": ["id", "name", "tasks"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "name": {"type": "string", "minLength": 1},
        "tasks": {"type": "array", "items": {"$ref": "#/$defs/task"}}
      }
    },
    "task": {
      "type": "object",
      "required": ["id", "title", "description", "dueDate", "priority", "completed", "checklist", "createdAt"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "title": {"type": "string", "minLength": 1},
        "description": {"type": "string", "minLength": 1},
        "dueDate": {"type": "string", "format": "date-time"},
        "priority": {"enum": ["Low", "Medium", "High"]},
        "completed": {"type": "boolean"},
        "checklist": {"type": "array", "items": {"$ref": "#/$defs/checklistItem"}},
        "createdAt": {"type": "string", "format": "date-time"}
      }
    },
    "checklistItem": {
      "type": "object",
      "required": ["id", "text", "completed"],
      "properties": {
        "id": {"$ref": "#/$defs/id"},
        "text": {"type": "string", "minLength": 1},
        "completed": {"type": "boolean"}
      }
    }
  }
}`

// PathError is one schema violation at a location in the document.
type PathError struct {
	Path    string
	Message string
}

// SchemaError lists every schema violation found in a document.
type SchemaError struct {
	Errors []PathError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, pe := range e.Errors {
		path := pe.Path
		if path == "" {
			path = "(root)"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", path, pe.Message))
	}
	return "document does not match schema: " + strings.Join(parts, "; ")
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add document schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

func validateSchema(raw interface{}) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}

	err = schema.Validate(raw)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	result := &SchemaError{}
	collectSchemaErrors(result, ve)
	return result
}

func collectSchemaErrors(result *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, PathError{
			Path:    strings.TrimPrefix(err.InstanceLocation, "/"),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
