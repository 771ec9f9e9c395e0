package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Op is one rich-text operation as produced by the editor. Insert holds either
// a text run (string) or an embed (object); Attributes carries formatting.
type Op struct {
	Insert     any            `json:"insert,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Content is the ordered list of operations that make up a post body.
type Content []Op

// ParseContent accepts the two encodings clients send: a JSON array of ops, or a
// JSON string. A string holding a valid op array is decoded as that array; any
// other string, including prose that merely starts with '[', becomes a single
// text insert.
func ParseContent(raw []byte) (Content, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidContent)
	}

	switch raw[0] {
	case '[':
		return parseOps(raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		trimmed := bytes.TrimSpace([]byte(s))
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if ops, err := parseOps(trimmed); err == nil {
				return ops, nil
			}
		}
		return Content{{Insert: s}}, nil
	default:
		return nil, fmt.Errorf("%w: expected an array of operations or a string", ErrInvalidContent)
	}
}

func parseOps(raw []byte) (Content, error) {
	var ops []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &ops); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	content := make(Content, 0, len(ops))
	for i, fields := range ops {
		if fields == nil {
			return nil, fmt.Errorf("%w: operation %d is not an object", ErrInvalidContent, i)
		}
		var op Op
		if insert, ok := fields["insert"]; ok && !isNull(insert) {
			var v any
			if err := json.Unmarshal(insert, &v); err != nil {
				return nil, fmt.Errorf("%w: operation %d: %v", ErrInvalidContent, i, err)
			}
			switch v.(type) {
			case string, map[string]any:
				op.Insert = v
			default:
				return nil, fmt.Errorf("%w: operation %d: insert must be a string or an object", ErrInvalidContent, i)
			}
		}
		if attrs, ok := fields["attributes"]; ok && !isNull(attrs) {
			if err := json.Unmarshal(attrs, &op.Attributes); err != nil {
				return nil, fmt.Errorf("%w: operation %d: attributes must be an object", ErrInvalidContent, i)
			}
		}
		content = append(content, op)
	}
	return content, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// MarshalJSON always renders an array, never null.
func (c Content) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Op(c))
}

// String returns the JSON text of the content, the form older clients expect
// in single-post and draft responses.
func (c Content) String() string {
	b, err := c.MarshalJSON()
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Clone returns a deep copy: ops, attribute maps and embed objects are not
// shared with c.
func (c Content) Clone() Content {
	if c == nil {
		return nil
	}
	out := make(Content, len(c))
	for i, op := range c {
		out[i] = Op{Insert: cloneValue(op.Insert)}
		if op.Attributes != nil {
			out[i].Attributes = cloneValue(op.Attributes).(map[string]any)
		}
	}
	return out
}

// cloneValue copies the maps and slices produced by decoding JSON into any.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
