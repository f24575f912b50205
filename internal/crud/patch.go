package crud

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
)

// Patch is a decoded update body: the names of the top-level fields that
// were present, plus the body decoded into the entity type.
type Patch[E any] struct {
	Fields []string
	Value  E
}

// DecodePatch reads a JSON object from r. Fields holds the keys as sent,
// sorted; Service.Update folds them onto column names the same
// case-insensitive way encoding/json fills Value.
func DecodePatch[E any](r io.Reader) (Patch[E], error) {
	var p Patch[E]

	body, err := io.ReadAll(r)
	if err != nil {
		return p, Errorf(ErrInvalidArgument, "reading request body: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return p, Errorf(ErrInvalidArgument, "request body must be a JSON object")
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&p.Value); err != nil {
		return p, Errorf(ErrInvalidArgument, "invalid request body: %v", err)
	}

	p.Fields = make([]string, 0, len(raw))
	for name := range raw {
		p.Fields = append(p.Fields, name)
	}
	sort.Strings(p.Fields)
	return p, nil
}
