package ledger

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/mint/model"
)

func newNote(id string, sequence, checksum int) *model.Note {
	return &model.Note{
		ID:           id,
		Denomination: 10,
		Batch:        "AA",
		Sequence:     sequence,
		Checksum:     checksum,
		Status:       model.StatusActive,
		IssueDate:    "2026-10-15",
		Files:        map[string]string{"front": "out/" + id + "_FRONT.svg"},
	}
}

func TestNewDocument_Encode(t *testing.T) {
	data, err := NewDocument().Encode()
	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"active_units\": [],\n  \"total_issued\": 0\n}", string(data))
}

func TestDecode_Invalid(t *testing.T) {
	testCases := []struct {
		description string
		input       string
	}{
		{description: "empty", input: "  "},
		{description: "list", input: `[]`},
		{description: "malformed", input: `{"active_units": [`},
		{description: "units not a list", input: `{"active_units": 5}`},
	}
	for _, tc := range testCases {
		_, err := Decode([]byte(tc.input))
		assert.ErrorIs(t, err, ErrInvalid, tc.description)
	}
}

func TestDocument_NextSequence(t *testing.T) {
	input := `{"active_units": [
		{"id": "SLS-AA100012"},
		{"id": "SLS-AA100998"},
		{"id": "SLS-AB200002"},
		{"id": 42},
		{"denomination": 10}
	]}`
	document, err := Decode([]byte(input))
	if !assert.NoError(t, err) {
		return
	}
	testCases := []struct {
		batch  string
		start  int
		expect int
	}{
		{batch: "AA", start: 10000, expect: 10100},
		{batch: "AB", start: 10000, expect: 20001},
		{batch: "ZZ", start: 10000, expect: 10001},
		{batch: "AA", start: 50000, expect: 50001},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, document.NextSequence("SLS", tc.batch, tc.start), tc.batch)
	}
}

func TestDocument_Append(t *testing.T) {
	testCases := []struct {
		description     string
		input           string
		expectKey       string
		expectCount     int
		expectCounter   string
		hasCounter      bool
		expectPreserved []string
	}{
		{
			description:   "current layout",
			input:         `{"active_units": [], "total_issued": 20}`,
			expectKey:     UnitsKey,
			expectCount:   1,
			expectCounter: "30",
			hasCounter:    true,
		},
		{
			description:     "legacy layout with meta counter",
			input:           `{"meta": {"country": "Шайлушандия", "total_circulation": 100}, "banknotes": [{"id": "SLS-AA100012", "owner": "<treasury>"}]}`,
			expectKey:       LegacyUnitsKey,
			expectCount:     2,
			expectCounter:   "110",
			hasCounter:      true,
			expectPreserved: []string{`"country": "Шайлушандия"`, `"owner": "<treasury>"`},
		},
		{
			description: "empty object",
			input:       `{}`,
			expectKey:   UnitsKey,
			expectCount: 1,
		},
		{
			description:     "meta without counter",
			input:           `{"meta": {"version": 2}, "active_units": null}`,
			expectKey:       UnitsKey,
			expectCount:     1,
			expectPreserved: []string{`"version": 2`},
		},
		{
			description:   "both layouts prefer active units",
			input:         `{"banknotes": [{"id": "old"}], "active_units": [], "total_issued": 1.5}`,
			expectKey:     UnitsKey,
			expectCount:   1,
			expectCounter: "11.5",
			hasCounter:    true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			document, err := Decode([]byte(tc.input))
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, document.Append(newNote("SLS-AA100023", 10002, 3)))
			assert.NoError(t, document.AddCirculation(10))
			assert.Equal(t, tc.expectKey, document.UnitsKey())
			assert.Equal(t, tc.expectCount, document.Len())
			counter, ok := document.Circulation()
			assert.Equal(t, tc.hasCounter, ok)
			if ok {
				assert.Equal(t, tc.expectCounter, counter.String())
			}

			data, err := document.Encode()
			if !assert.NoError(t, err) {
				return
			}
			for _, fragment := range tc.expectPreserved {
				assert.Contains(t, string(data), fragment)
			}
			reloaded, err := Decode(data)
			if !assert.NoError(t, err) {
				return
			}
			notes, err := reloaded.Notes()
			assert.NoError(t, err)
			assert.Equal(t, tc.expectCount, len(notes))
			assert.Equal(t, "SLS-AA100023", notes[len(notes)-1].ID)
		})
	}
}

func TestDocument_KeyOrder(t *testing.T) {
	document, err := Decode([]byte(`{"zeta": true, "active_units": [], "alpha": {"b": 1, "a": 2}}`))
	if !assert.NoError(t, err) {
		return
	}
	assert.NoError(t, document.Append(newNote("SLS-AA100012", 10001, 2)))
	data, err := document.Encode()
	assert.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Index(text, `"zeta"`) < strings.Index(text, `"active_units"`))
	assert.True(t, strings.Index(text, `"active_units"`) < strings.Index(text, `"alpha"`))
	assert.True(t, strings.Index(text, `"b"`) < strings.Index(text, `"a"`))
	assert.True(t, json.Valid(data))
}

func TestDocument_LookupReplace(t *testing.T) {
	document := NewDocument()
	assert.NoError(t, document.Append(newNote("SLS-AA100012", 10001, 2), newNote("SLS-AA100023", 10002, 3)))

	note, index, err := document.Lookup("SLS-AA100023")
	assert.NoError(t, err)
	assert.Equal(t, 1, index)
	note.Status = model.StatusVoid
	assert.NoError(t, document.Replace(index, note))

	notes, err := document.Notes()
	assert.NoError(t, err)
	assert.Equal(t, model.StatusActive, notes[0].Status)
	assert.Equal(t, model.StatusVoid, notes[1].Status)

	missing, index, err := document.Lookup("SLS-ZZ100012")
	assert.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, -1, index)
	assert.Error(t, document.Replace(5, note))
}

func TestDocument_EncodeUnescapedFiles(t *testing.T) {
	document := NewDocument()
	note := newNote("SLS-AA100012", 10001, 2)
	note.Files["front"] = "/srv/R&D/<out>/SLS-AA100012_FRONT.svg"
	assert.NoError(t, document.Append(note))
	data, err := document.Encode()
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"front": "/srv/R&D/<out>/SLS-AA100012_FRONT.svg"`)
	assert.NotContains(t, string(data), `\u0026`)
	assert.NotContains(t, string(data), `\u003c`)
}

func TestDocument_ReplaceKeepsRecordOrder(t *testing.T) {
	document, err := Decode([]byte(`{"banknotes": [{"id": "SLS-AA100012", "serial_no": 7, "status": "Active", "owner": "R&D"}]}`))
	if !assert.NoError(t, err) {
		return
	}
	note, index, err := document.Lookup("SLS-AA100012")
	if !assert.NoError(t, err) || !assert.NotNil(t, note) {
		return
	}
	note.Status = model.StatusVoid
	assert.NoError(t, document.Replace(index, note))
	data, err := document.Encode()
	assert.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Index(text, `"id"`) < strings.Index(text, `"serial_no"`))
	assert.True(t, strings.Index(text, `"serial_no"`) < strings.Index(text, `"status": "Void"`))
	assert.True(t, strings.Index(text, `"status"`) < strings.Index(text, `"owner": "R&D"`))
}

func TestDiff(t *testing.T) {
	before := []byte("{\n  \"total_issued\": 0\n}")
	after := []byte("{\n  \"total_issued\": 10\n}")
	patch, stats, err := Diff(before, after, "ledger.json", 0)
	assert.NoError(t, err)
	assert.Contains(t, patch, "+  \"total_issued\": 10")
	assert.Equal(t, DiffStats{Added: 1, Removed: 1}, stats)

	patch, stats, err = Diff(before, before, "ledger.json", 0)
	assert.NoError(t, err)
	assert.Empty(t, patch)
	assert.Equal(t, DiffStats{}, stats)
}
