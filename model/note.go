package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Note statuses.
const (
	StatusActive = "Active"
	StatusVoid   = "Void"
)

// Note represents a single issued identifier recorded in the ledger.
// Keys the model does not know about are kept in Extra and written back
// unchanged, in their original position.
type Note struct {
	ID           string            `json:"id"`
	Denomination int               `json:"denomination"`
	Batch        string            `json:"batch"`
	Sequence     int               `json:"sequence"`
	Checksum     int               `json:"checksum"`
	Status       string            `json:"status"`
	IssueDate    string            `json:"issue_date"`
	Files        map[string]string `json:"files,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`

	// order lists keys as they appeared in the decoded record
	order []string
}

// IsActive reports whether the note is in circulation.
func (n *Note) IsActive() bool {
	return n.Status == StatusActive
}

type note Note

var noteKeys = []string{"id", "denomination", "batch", "sequence", "checksum", "status", "issue_date", "files"}

// UnmarshalJSON decodes known fields and retains unknown ones in Extra.
func (n *Note) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	order, err := objectKeys(data)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var decoded note
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("invalid note: %w", err)
	}
	for _, key := range noteKeys {
		delete(fields, key)
	}
	if len(fields) > 0 {
		decoded.Extra = fields
	}
	decoded.order = order
	*n = Note(decoded)
	return nil
}

// MarshalJSON writes keys in the order they were decoded. Known fields absent
// from the decoded record follow in ledger order, then new Extra keys in
// lexical order. HTML characters are not escaped.
func (n Note) MarshalJSON() ([]byte, error) {
	known := n.known()
	written := make(map[string]bool, len(known)+len(n.Extra))
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	write := func(key string) error {
		if written[key] {
			return nil
		}
		var value []byte
		if raw, ok := n.Extra[key]; ok {
			value = raw
		} else if field, ok := known[key]; ok {
			var err error
			if value, err = encode(field); err != nil {
				return fmt.Errorf("failed to encode note %v: %w", key, err)
			}
		} else {
			return nil
		}
		written[key] = true
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		name, err := encode(key)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}
	extra := make([]string, 0, len(n.Extra))
	for key := range n.Extra {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, keys := range [][]string{n.order, noteKeys, extra} {
		for _, key := range keys {
			if err := write(key); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (n *Note) known() map[string]interface{} {
	ret := map[string]interface{}{
		"id":           n.ID,
		"denomination": n.Denomination,
		"batch":        n.Batch,
		"sequence":     n.Sequence,
		"checksum":     n.Checksum,
		"status":       n.Status,
		"issue_date":   n.IssueDate,
	}
	if len(n.Files) > 0 {
		ret["files"] = n.Files
	}
	return ret
}

func encode(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// objectKeys returns the top level keys of a JSON object in document order.
func objectKeys(data []byte) ([]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("invalid note: expected object")
	}
	var keys []string
	for decoder.More() {
		token, err = decoder.Token()
		if err != nil {
			return nil, err
		}
		key, _ := token.(string)
		keys = append(keys, key)
		var value json.RawMessage
		if err = decoder.Decode(&value); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
