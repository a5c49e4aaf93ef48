package mention

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// SchemaVersion is written into every encoded id. Decode rejects other
// versions instead of guessing at their layout.
const SchemaVersion = 1

// ErrMalformedID is wrapped by every Decode failure
var ErrMalformedID = errors.New("malformed mention id")

// Candidate is a selectable popover entry as understood by the editor:
// Label is inserted into the text, ID carries the encoded Mention.
type Candidate struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// envelope is the serialized form of a mention id
type envelope struct {
	Version int             `json:"v"`
	Type    Type            `json:"type"`
	Data    json.RawMessage `json:"d"`
}

// Label returns the literal text inserted for a mention
func Label(m Mention) string {
	if m.Kind() == TypeMCPServer {
		return m.DisplayName() + " "
	}
	return `tool("` + m.DisplayName() + `") `
}

// Encode converts a mention into the (label, id) pair stored in the editor
func Encode(m Mention) (Candidate, error) {
	id, err := EncodeID(m)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Label: Label(m), ID: id}, nil
}

// EncodeID serializes a mention into a versioned, tagged id
func EncodeID(m Mention) (string, error) {
	if m == nil {
		return "", errors.New("encode mention: nil")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s mention: %w", m.Kind(), err)
	}
	raw, err := json.Marshal(envelope{
		Version: SchemaVersion,
		Type:    m.Kind(),
		Data:    data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode %s mention: %w", m.Kind(), err)
	}
	return string(raw), nil
}

// Decode parses an id produced by EncodeID back into its Mention
func Decode(id string) (Mention, error) {
	var env envelope
	if err := strictUnmarshal([]byte(id), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedID, err)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedID, env.Version)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformedID)
	}

	switch env.Type {
	case TypeMCPServer:
		return decodeAs[MCPServer](env)
	case TypeTool:
		return decodeAs[Tool](env)
	case TypeWorkflow:
		return decodeAs[Workflow](env)
	case TypeDefaultTool:
		return decodeAs[DefaultTool](env)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedID, env.Type)
	}
}

// DecodeAll translates the editor's tokens into mentions, stopping at the
// first id that does not decode
func DecodeAll(candidates []Candidate) ([]Mention, error) {
	out := make([]Mention, 0, len(candidates))
	for i, c := range candidates {
		m, err := Decode(c.ID)
		if err != nil {
			return nil, fmt.Errorf("mention %d (%q): %w", i, c.Label, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeAs[T Mention](env envelope) (Mention, error) {
	var v T
	if err := strictUnmarshal(env.Data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedID, env.Type, err)
	}
	return v, nil
}

// strictUnmarshal decodes exactly one JSON value into v. Unknown fields,
// field names that differ from the json tags only by case and anything
// after the value are errors.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data")
	}
	return checkFieldNames(data, reflect.TypeOf(v))
}

// checkFieldNames walks the objects in data and rejects keys that are not
// exactly the json names of t's fields. encoding/json alone would accept
// "NAME" for a field tagged "name".
func checkFieldNames(data []byte, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}

	for key, value := range raw {
		ft, ok := fields[key]
		if !ok {
			return fmt.Errorf("unknown field %q", key)
		}
		if bytes.Equal(value, []byte("null")) {
			continue
		}
		if err := checkFieldNames(value, ft); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}
