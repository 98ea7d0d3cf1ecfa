package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/viant/mint/model"
	"github.com/viant/mint/model/serial"
)

// Ledger keys.
const (
	UnitsKey            = "active_units"
	LegacyUnitsKey      = "banknotes"
	TotalIssuedKey      = "total_issued"
	MetaKey             = "meta"
	TotalCirculationKey = "total_circulation"
)

// Document is a decoded ledger. Records stay as raw JSON until they are
// decoded on demand, so entries this package does not touch are written back
// as they were read. Top-level key order is preserved.
type Document struct {
	root     *object
	unitsKey string
	units    []json.RawMessage
}

// NewDocument returns an empty ledger in the current layout.
func NewDocument() *Document {
	root := newObject()
	root.put(UnitsKey, json.RawMessage("[]"))
	root.put(TotalIssuedKey, json.RawMessage("0"))
	return &Document{root: root, unitsKey: UnitsKey}
}

// Decode parses ledger JSON. Records are read from active_units, or from the
// legacy banknotes list when active_units is absent.
func Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	root := newObject()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	ret := &Document{root: root}
	for _, key := range []string{UnitsKey, LegacyUnitsKey} {
		if root.has(key) {
			ret.unitsKey = key
			break
		}
	}
	if ret.unitsKey == "" {
		return ret, nil
	}
	raw := root.get(ret.unitsKey)
	if string(bytes.TrimSpace(raw)) == "null" {
		return ret, nil
	}
	if err := json.Unmarshal(raw, &ret.units); err != nil {
		return nil, fmt.Errorf("%w: %v is not a list: %v", ErrInvalid, ret.unitsKey, err)
	}
	return ret, nil
}

// UnitsKey returns the key holding records, or "" when the ledger has none yet.
func (d *Document) UnitsKey() string {
	return d.unitsKey
}

// Len returns number of records.
func (d *Document) Len() int {
	return len(d.units)
}

// Notes decodes all records.
func (d *Document) Notes() ([]*model.Note, error) {
	ret := make([]*model.Note, 0, len(d.units))
	for i := range d.units {
		note, err := d.note(i)
		if err != nil {
			return nil, err
		}
		ret = append(ret, note)
	}
	return ret, nil
}

// Lookup returns the first record with the supplied id and its index, or -1.
func (d *Document) Lookup(id string) (*model.Note, int, error) {
	for i, candidate := range d.ids() {
		if candidate != id {
			continue
		}
		note, err := d.note(i)
		return note, i, err
	}
	return nil, -1, nil
}

// NextSequence returns the sequence following the highest one found for
// prefix/batch among record ids, but never less than start+1.
func (d *Document) NextSequence(prefix, batch string, start int) int {
	highest := start
	for _, id := range d.ids() {
		if sequence, ok := serial.Find(id, prefix, batch); ok && sequence > highest {
			highest = sequence
		}
	}
	return highest + 1
}

// Append adds records, creating the active_units list when the ledger has
// no record list yet.
func (d *Document) Append(notes ...*model.Note) error {
	for _, note := range notes {
		data, err := marshal(note)
		if err != nil {
			return fmt.Errorf("failed to encode note %v: %w", note.ID, err)
		}
		d.units = append(d.units, data)
	}
	if d.unitsKey == "" {
		d.unitsKey = UnitsKey
	}
	return nil
}

// Replace overwrites the record at index.
func (d *Document) Replace(index int, note *model.Note) error {
	if index < 0 || index >= len(d.units) {
		return fmt.Errorf("note index %d out of range", index)
	}
	data, err := marshal(note)
	if err != nil {
		return fmt.Errorf("failed to encode note %v: %w", note.ID, err)
	}
	d.units[index] = data
	return nil
}

// AddCirculation increments total_issued, or meta.total_circulation when the
// ledger uses the meta layout. Ledgers with neither counter are left as is.
func (d *Document) AddCirculation(amount int) error {
	if d.root.has(TotalIssuedKey) {
		value, err := addNumber(d.root.get(TotalIssuedKey), amount)
		if err != nil {
			return fmt.Errorf("invalid %v: %w", TotalIssuedKey, err)
		}
		d.root.put(TotalIssuedKey, value)
		return nil
	}
	if !d.root.has(MetaKey) {
		return nil
	}
	meta := newObject()
	if err := json.Unmarshal(d.root.get(MetaKey), meta); err != nil {
		// meta that is not an object carries no counter
		return nil
	}
	if !meta.has(TotalCirculationKey) {
		return nil
	}
	value, err := addNumber(meta.get(TotalCirculationKey), amount)
	if err != nil {
		return fmt.Errorf("invalid %v.%v: %w", MetaKey, TotalCirculationKey, err)
	}
	meta.put(TotalCirculationKey, value)
	data, err := meta.MarshalJSON()
	if err != nil {
		return err
	}
	d.root.put(MetaKey, data)
	return nil
}

// Circulation returns the value of the circulation counter in use.
func (d *Document) Circulation() (json.Number, bool) {
	raw := d.root.get(TotalIssuedKey)
	if raw == nil && d.root.has(MetaKey) {
		meta := newObject()
		if err := json.Unmarshal(d.root.get(MetaKey), meta); err == nil {
			raw = meta.get(TotalCirculationKey)
		}
	}
	if raw == nil {
		return "", false
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", false
	}
	return number, true
}

// Encode renders the ledger as two-space indented JSON.
func (d *Document) Encode() ([]byte, error) {
	if d.unitsKey != "" {
		units := d.units
		if units == nil {
			units = []json.RawMessage{}
		}
		data, err := marshal(units)
		if err != nil {
			return nil, err
		}
		d.root.put(d.unitsKey, data)
	}
	compact, err := d.root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	if err = json.Indent(buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent ledger: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) note(index int) (*model.Note, error) {
	note := &model.Note{}
	if err := json.Unmarshal(d.units[index], note); err != nil {
		return nil, fmt.Errorf("%w: record %d: %v", ErrInvalid, index, err)
	}
	return note, nil
}

// ids returns record ids; records without a string id yield "".
func (d *Document) ids() []string {
	ret := make([]string, len(d.units))
	for i, raw := range d.units {
		var record struct {
			ID interface{} `json:"id"`
		}
		if err := json.Unmarshal(raw, &record); err != nil {
			continue
		}
		if id, ok := record.ID.(string); ok {
			ret[i] = id
		}
	}
	return ret
}

func addNumber(raw json.RawMessage, amount int) (json.RawMessage, error) {
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return nil, err
	}
	if value, err := number.Int64(); err == nil {
		return json.RawMessage(strconv.FormatInt(value+int64(amount), 10)), nil
	}
	value, err := number.Float64()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(strconv.FormatFloat(value+float64(amount), 'f', -1, 64)), nil
}
