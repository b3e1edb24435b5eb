package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	translateSchema = "translate_request.schema.json"
	detectSchema    = "detect_request.schema.json"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	compileOnce     sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	compileErr      error
)

type translateRequest struct {
	Text   string  `json:"text"`
	Source *string `json:"source"`
	Target string  `json:"target"`
	Format *string `json:"format"`
}

type detectRequest struct {
	Text string `json:"text"`
}

// decodeBody checks raw against the named schema and unmarshals it into out.
func decodeBody(raw []byte, schemaName string, out any) error {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := loadSchema(schemaName)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return errors.New(describeSchemaError(err))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func loadSchema(name string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		schemas := make(map[string]*jsonschema.Schema)
		for _, file := range []string{translateSchema, detectSchema} {
			data, err := schemaFS.ReadFile("schemas/" + file)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", file, err)
				return
			}
			if err := compiler.AddResource(file, bytes.NewReader(data)); err != nil {
				compileErr = fmt.Errorf("add schema resource %s: %w", file, err)
				return
			}
		}
		for _, file := range []string{translateSchema, detectSchema} {
			schema, err := compiler.Compile(file)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", file, err)
				return
			}
			schemas[file] = schema
		}
		compiledSchemas = schemas
	})

	if compileErr != nil {
		return nil, compileErr
	}
	schema, ok := compiledSchemas[name]
	if !ok {
		return nil, fmt.Errorf("schema %q not found", name)
	}
	return schema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("body is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("body contains trailing content")
	}

	return value, nil
}

// describeSchemaError reduces a validation failure to its first leaf cause.
func describeSchemaError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	location := strings.TrimPrefix(ve.InstanceLocation, "/")
	if location == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", location, ve.Message)
}
