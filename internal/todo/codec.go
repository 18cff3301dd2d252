package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaURL is the resource name the embedded schema is compiled under.
const SchemaURL = "tasks.schema.json"

//go:embed tasks.schema.json
var schemaJSON []byte

// ErrMalformed marks stored data that is not a valid task list.
var ErrMalformed = errors.New("malformed task list")

// DecodeError describes why a stored value could not be decoded.
type DecodeError struct {
	Path string // Path of the offending value, e.g. "[2].text"
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", ErrMalformed, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformed, e.Err)
}

// Unwrap returns ErrMalformed and the underlying error.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the compiled task list schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(SchemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(SchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Encode serializes tasks as a compact JSON array. A nil slice encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode validates data against the schema and decodes it.
// Empty or whitespace-only data decodes to an empty list.
// Any other invalid input returns a *DecodeError.
func Decode(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("parse: %w", err)}
	}
	if dec.More() {
		return nil, &DecodeError{Err: errors.New("unexpected data after task list")}
	}

	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaDecodeError(err)
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("decode: %w", err)}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// schemaDecodeError reports the first leaf cause of a schema failure.
func schemaDecodeError(err error) *DecodeError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &DecodeError{Err: err}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &DecodeError{
		Path: jsonPointerToPath(ve.InstanceLocation),
		Err:  errors.New(ve.Message),
	}
}

// jsonPointerToPath converts "/2/text" to "[2].text".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
