package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// Call is a decoded tool call. The set of implementations is closed: only the
// argument types in this package satisfy it.
type Call interface {
	ToolName() string
	isCall()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report argument names as the model spells them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseCall decodes raw JSON arguments into the typed call for name and
// validates them. Unknown argument keys are ignored, so a model cannot widen a
// call by passing extra parameters such as a working directory.
func ParseCall(name string, raw json.RawMessage) (Call, error) {
	switch name {
	case GetFilesInfoName:
		return decode[GetFilesInfo](name, raw)
	case GetFileContentName:
		return decode[GetFileContent](name, raw)
	case RunPythonFileName:
		return decode[RunPythonFile](name, raw)
	case WriteFileName:
		return decode[WriteFile](name, raw)
	default:
		return nil, safety.ToolError{Kind: safety.KindUnknownTool, Message: fmt.Sprintf("Unknown function: %s", name)}
	}
}

func decode[T Call](name string, raw json.RawMessage) (Call, error) {
	var args T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, invalidArgs(name, err)
		}
	}
	if err := validate.Struct(args); err != nil {
		return nil, invalidArgs(name, err)
	}
	return args, nil
}

func invalidArgs(name string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return safety.ToolError{
			Kind:    safety.KindInvalidArguments,
			Message: fmt.Sprintf("invalid arguments for %s: %s", name, strings.Join(fields, ", ")),
		}
	}
	return safety.ToolError{Kind: safety.KindInvalidArguments, Message: fmt.Sprintf("invalid arguments for %s: %v", name, err)}
}
