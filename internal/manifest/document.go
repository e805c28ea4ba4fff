package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// member is one top-level key of the document with its raw JSON value.
type member struct {
	Key   string
	Value json.RawMessage
}

// Document is a JSON object whose top-level members keep their order and
// their original value bytes.
type Document struct {
	members         []member
	trailingNewline bool
}

// ParseDocument parses data as a JSON object. Anything other than a single
// well-formed object is an error.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("document must be a JSON object")
	}

	doc := &Document{trailingNewline: bytes.HasSuffix(data, []byte("\n"))}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("reading value of %q: %w", key, err)
		}
		doc.set(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading end of document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after document")
	}
	return doc, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.members))
	for i, m := range d.members {
		keys[i] = m.Key
	}
	return keys
}

// Raw returns the raw JSON value of key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	for _, m := range d.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// String returns the value of key if it is a JSON string.
func (d *Document) String(key string) (string, bool) {
	raw, ok := d.Raw(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set encodes v and stores it under key, keeping the key's position if it
// already exists and appending it otherwise.
func (d *Document) Set(key string, v interface{}) error {
	raw, err := encode(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	d.set(key, raw)
	return nil
}

func (d *Document) set(key string, raw json.RawMessage) {
	for i := range d.members {
		if d.members[i].Key == key {
			d.members[i].Value = raw
			return
		}
	}
	d.members = append(d.members, member{Key: key, Value: raw})
}

// Marshal renders the document with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if len(d.members) == 0 {
		buf.WriteString("{}")
	} else {
		buf.WriteString("{\n")
		for i, m := range d.members {
			key, err := encode(m.Key)
			if err != nil {
				return nil, err
			}
			buf.WriteString("  ")
			buf.Write(key)
			buf.WriteString(": ")
			if err := json.Indent(&buf, m.Value, "  ", "  "); err != nil {
				return nil, fmt.Errorf("formatting %q: %w", m.Key, err)
			}
			if i < len(d.members)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteByte('}')
	}
	if d.trailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// encode marshals v without HTML escaping.
func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
