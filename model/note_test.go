package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNote_JSON(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      *Note
		output      string
	}{
		{
			description: "known fields",
			input:       `{"id":"SLS-AA100012","denomination":10,"batch":"AA","sequence":10001,"checksum":2,"status":"Active","issue_date":"2026-10-15","files":{"front":"out/SLS-AA100012_FRONT.svg"}}`,
			expect: &Note{ID: "SLS-AA100012", Denomination: 10, Batch: "AA", Sequence: 10001, Checksum: 2,
				Status: StatusActive, IssueDate: "2026-10-15", Files: map[string]string{"front": "out/SLS-AA100012_FRONT.svg"},
				order: []string{"id", "denomination", "batch", "sequence", "checksum", "status", "issue_date", "files"}},
			output: `{"id":"SLS-AA100012","denomination":10,"batch":"AA","sequence":10001,"checksum":2,"status":"Active","issue_date":"2026-10-15","files":{"front":"out/SLS-AA100012_FRONT.svg"}}`,
		},
		{
			description: "unknown fields preserved",
			input:       `{"id":"SLS-AA100023","owner":{"name":"Мария"},"denomination":10,"batch":"AA","sequence":10002,"checksum":3,"status":"Active","issue_date":"2026-01-01","comment":"first"}`,
			expect: &Note{ID: "SLS-AA100023", Denomination: 10, Batch: "AA", Sequence: 10002, Checksum: 3,
				Status: StatusActive, IssueDate: "2026-01-01",
				Extra: map[string]json.RawMessage{"owner": json.RawMessage(`{"name":"Мария"}`), "comment": json.RawMessage(`"first"`)},
				order: []string{"id", "owner", "denomination", "batch", "sequence", "checksum", "status", "issue_date", "comment"}},
			output: `{"id":"SLS-AA100023","owner":{"name":"Мария"},"denomination":10,"batch":"AA","sequence":10002,"checksum":3,"status":"Active","issue_date":"2026-01-01","comment":"first"}`,
		},
		{
			description: "unknown key order kept",
			input:       `{"zeta":1,"id":"SLS-AA100034","status":"Active","alpha":2}`,
			expect: &Note{ID: "SLS-AA100034", Status: StatusActive,
				Extra: map[string]json.RawMessage{"zeta": json.RawMessage(`1`), "alpha": json.RawMessage(`2`)},
				order: []string{"zeta", "id", "status", "alpha"}},
			output: `{"zeta":1,"id":"SLS-AA100034","status":"Active","alpha":2,"denomination":0,"batch":"","sequence":0,"checksum":0,"issue_date":""}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual := &Note{}
			if !assert.NoError(t, json.Unmarshal([]byte(tc.input), actual)) {
				return
			}
			assert.EqualValues(t, tc.expect, actual)
			data, err := json.Marshal(actual)
			assert.NoError(t, err)
			assert.Equal(t, tc.output, string(data))
		})
	}
}

func TestNote_InvalidField(t *testing.T) {
	err := json.Unmarshal([]byte(`{"id":"SLS-AA100012","sequence":"10001"}`), &Note{})
	assert.Error(t, err)
}

func TestNote_MarshalJSON(t *testing.T) {
	testCases := []struct {
		description string
		note        Note
		output      string
	}{
		{
			description: "html characters kept literal",
			note:        Note{ID: "SLS-AA100012", Status: StatusActive, Files: map[string]string{"front": "/srv/R&D/<out>/SLS-AA100012_FRONT.svg"}},
			output:      `{"id":"SLS-AA100012","denomination":0,"batch":"","sequence":0,"checksum":0,"status":"Active","issue_date":"","files":{"front":"/srv/R&D/<out>/SLS-AA100012_FRONT.svg"}}`,
		},
		{
			description: "new extra keys sorted after known fields",
			note:        Note{ID: "SLS-AA100012", Extra: map[string]json.RawMessage{"zeta": json.RawMessage(`1`), "alpha": json.RawMessage(`2`)}},
			output:      `{"id":"SLS-AA100012","denomination":0,"batch":"","sequence":0,"checksum":0,"status":"","issue_date":"","alpha":2,"zeta":1}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			data, err := tc.note.MarshalJSON()
			assert.NoError(t, err)
			assert.Equal(t, tc.output, string(data))
		})
	}
}

func TestNote_VoidKeepsOrder(t *testing.T) {
	actual := &Note{}
	if !assert.NoError(t, json.Unmarshal([]byte(`{"id":"SLS-AA100012","zeta":"z","status":"Active","alpha":"a"}`), actual)) {
		return
	}
	actual.Status = StatusVoid
	data, err := json.Marshal(actual)
	assert.NoError(t, err)
	assert.Equal(t, `{"id":"SLS-AA100012","zeta":"z","status":"Void","alpha":"a","denomination":0,"batch":"","sequence":0,"checksum":0,"issue_date":""}`, string(data))
}
