package tools

import "github.com/invopop/jsonschema"

// Declaration advertises one tool to the model.
type Declaration struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}

// GenerateSchema derives an inline object schema from the argument struct T.
// Fields without omitempty are listed as required.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
