package issuer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/mint/internal/clock"
	"github.com/viant/mint/internal/idgen"
	"github.com/viant/mint/model/serial"
	"github.com/viant/mint/service/ledger"
	"github.com/viant/mint/service/ledger/memory"
	"github.com/viant/mint/service/raster"
	"github.com/viant/mint/service/stamp"
)

const templateSVG = `<svg><text id="serial">SLS-XX0000000</text></svg>`

func stubClock(t *testing.T) {
	now, idgenNew := clock.NowFunc, idgen.NewFunc
	clock.NowFunc = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }
	idgen.NewFunc = func() string { return "run-1" }
	t.Cleanup(func() {
		clock.NowFunc, idgen.NewFunc = now, idgenNew
	})
}

func uploadTemplates(t *testing.T, fs afs.Service, base string) []*stamp.Template {
	ctx := context.Background()
	var templates []*stamp.Template
	for _, side := range []string{"front", "back"} {
		URL := base + "/templates/" + side + "_10.svg"
		assert.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader([]byte(templateSVG))))
		templates = append(templates, &stamp.Template{Side: side, URL: URL})
	}
	return templates
}

func TestService_Issue(t *testing.T) {
	stubClock(t)
	fs := afs.New()
	ctx := context.Background()

	testCases := []struct {
		description     string
		base            string
		ledger          string
		input           *Input
		existing        []string
		expectIDs       []string
		expectErr       error
		expectLedgerLen int
		expectCirculate string
		expectPersisted bool
		expectUnitsKey  string
	}{
		{
			description:     "new batch in empty ledger",
			base:            "mem://localhost/issuer/empty",
			ledger:          `{"active_units": [], "total_issued": 0}`,
			input:           &Input{Batch: " aa ", Quantity: 2},
			expectIDs:       []string{"SLS-AA100012", "SLS-AA100023"},
			expectLedgerLen: 2,
			expectCirculate: "20",
			expectPersisted: true,
			expectUnitsKey:  ledger.UnitsKey,
		},
		{
			description:     "continues after highest sequence",
			base:            "mem://localhost/issuer/continue",
			ledger:          `{"active_units": [{"id": "SLS-AA100198", "status": "Active"}, {"id": "SLS-BB200002"}], "total_issued": 20}`,
			input:           &Input{Batch: "AA", Quantity: 1},
			expectIDs:       []string{"SLS-AA100203"},
			expectLedgerLen: 3,
			expectCirculate: "30",
			expectPersisted: true,
			expectUnitsKey:  ledger.UnitsKey,
		},
		{
			description:     "legacy layout with meta counter",
			base:            "mem://localhost/issuer/legacy",
			ledger:          `{"meta": {"name": "x", "total_circulation": 5}, "banknotes": [{"id": "SLS-AA100012"}]}`,
			input:           &Input{Batch: "AA", Quantity: 1},
			expectIDs:       []string{"SLS-AA100023"},
			expectLedgerLen: 2,
			expectCirculate: "15",
			expectPersisted: true,
			expectUnitsKey:  ledger.LegacyUnitsKey,
		},
		{
			description:     "empty object creates active units",
			base:            "mem://localhost/issuer/object",
			ledger:          `{}`,
			input:           &Input{Batch: "CC", Quantity: 1},
			expectIDs:       []string{"SLS-CC100012"},
			expectLedgerLen: 1,
			expectPersisted: true,
			expectUnitsKey:  ledger.UnitsKey,
		},
		{
			description:     "existing output persists completed notes",
			base:            "mem://localhost/issuer/partial",
			ledger:          `{"active_units": [], "total_issued": 0}`,
			input:           &Input{Batch: "AA", Quantity: 3},
			existing:        []string{"out/SLS-AA100023_FRONT.svg"},
			expectIDs:       []string{"SLS-AA100012"},
			expectErr:       stamp.ErrOutputExists,
			expectLedgerLen: 1,
			expectCirculate: "10",
			expectPersisted: true,
			expectUnitsKey:  ledger.UnitsKey,
		},
		{
			description: "sequence exhausted",
			base:        "mem://localhost/issuer/exhausted",
			ledger:      `{"active_units": [{"id": "SLS-AA999981"}]}`,
			input:       &Input{Batch: "AA", Quantity: 2},
			expectErr:   ErrSequenceExhausted,
		},
		{
			description: "invalid batch",
			base:        "mem://localhost/issuer/invalid",
			ledger:      `{}`,
			input:       &Input{Batch: "A.*", Quantity: 1},
			expectErr:   serial.ErrInvalidBatch,
		},
		{
			description: "invalid quantity",
			base:        "mem://localhost/issuer/quantity",
			ledger:      `{}`,
			input:       &Input{Batch: "AA", Quantity: 0},
			expectErr:   ErrInvalidQuantity,
		},
		{
			description: "missing ledger",
			base:        "mem://localhost/issuer/missing",
			input:       &Input{Batch: "AA", Quantity: 1},
			expectErr:   ErrLedgerNotFound,
		},
	}

	for _, testCase := range testCases {
		templates := uploadTemplates(t, fs, testCase.base)
		for _, name := range testCase.existing {
			assert.NoError(t, fs.Upload(ctx, testCase.base+"/"+name, file.DefaultFileOsMode, bytes.NewReader([]byte("x"))), testCase.description)
		}
		var data []byte
		if testCase.ledger != "" {
			data = []byte(testCase.ledger)
		}
		store := memory.New(data)
		srv := New(store, stamp.New(fs, DefaultPlaceholder, nil), nil,
			WithTemplates(templates...),
			WithOutput(testCase.base+"/out", false))

		output := &Output{}
		err := srv.Issue(ctx, testCase.input, output)
		if testCase.expectErr != nil {
			assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
		} else if !assert.NoError(t, err, testCase.description) {
			continue
		}
		var ids []string
		for _, note := range output.Notes {
			ids = append(ids, note.ID)
		}
		assert.Equal(t, testCase.expectIDs, ids, testCase.description)
		if !testCase.expectPersisted {
			if data != nil {
				assert.Equal(t, data, store.Data(), testCase.description)
			}
			continue
		}
		document, err := ledger.Decode(store.Data())
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expectLedgerLen, document.Len(), testCase.description)
		assert.Equal(t, testCase.expectUnitsKey, document.UnitsKey(), testCase.description)
		circulation, _ := document.Circulation()
		assert.Equal(t, testCase.expectCirculate, circulation.String(), testCase.description)
		for _, id := range testCase.expectIDs {
			note, _, err := document.Lookup(id)
			assert.NoError(t, err, testCase.description)
			if !assert.NotNil(t, note, testCase.description) {
				continue
			}
			assert.Equal(t, "2026-03-04", note.IssueDate, testCase.description)
			assert.Equal(t, DefaultDenomination, note.Denomination, testCase.description)
			assert.Equal(t, testCase.base+"/out/"+id+"_FRONT.svg", note.Files["front"], testCase.description)
			content, err := fs.DownloadWithURL(ctx, note.Files["back"])
			assert.NoError(t, err, testCase.description)
			assert.Contains(t, string(content), id, testCase.description)
		}
	}
}

func TestService_IssueDryRun(t *testing.T) {
	stubClock(t)
	fs := afs.New()
	ctx := context.Background()
	base := "mem://localhost/issuer/dryrun"
	templates := uploadTemplates(t, fs, base)
	original := []byte(`{"active_units": [], "total_issued": 0}`)
	store := memory.New(original)
	srv := New(store, stamp.New(fs, DefaultPlaceholder, nil), nil,
		WithTemplates(templates...),
		WithOutput(base+"/out", false))

	output := &Output{}
	err := srv.Issue(ctx, &Input{Batch: "AA", Quantity: 1, DryRun: true, Rasterize: true}, output)
	assert.NoError(t, err)
	assert.Equal(t, original, store.Data())
	exists, _ := fs.Exists(ctx, base+"/out")
	assert.False(t, exists)
	if assert.Len(t, output.Notes, 1) {
		assert.Equal(t, base+"/out/SLS-AA100012_FRONT.png", output.Notes[0].Files["front_png"])
	}
	assert.Contains(t, output.Diff, `+      "id": "SLS-AA100012",`)
	assert.Contains(t, output.Diff, `+  "total_issued": 10`)
	assert.Equal(t, "10", output.Circulation)
}

type fakeRunner struct {
	commands []string
	failAt   int
}

func (f *fakeRunner) Run(ctx context.Context, command string, timeoutMs int) (string, int, error) {
	f.commands = append(f.commands, command)
	if len(f.commands) == f.failAt {
		return "inkscape: command not found", 127, nil
	}
	return "", 0, nil
}

func (f *fakeRunner) Close() error { return nil }

func writeTemplates(t *testing.T, dir string) []*stamp.Template {
	var templates []*stamp.Template
	for _, side := range []string{"front", "back"} {
		location := filepath.Join(dir, side+"_10.svg")
		assert.NoError(t, os.WriteFile(location, []byte(templateSVG), 0644))
		templates = append(templates, &stamp.Template{Side: side, URL: location})
	}
	return templates
}

func newRasterizer(runner *fakeRunner) *raster.Service {
	return raster.New(raster.WithRunnerFactory(func(ctx context.Context, host *raster.Host, env map[string]string) (raster.Runner, error) {
		return runner, nil
	}))
}

func TestService_IssueRasterize(t *testing.T) {
	stubClock(t)
	ctx := context.Background()
	dir := t.TempDir()
	templates := writeTemplates(t, dir)
	runner := &fakeRunner{}
	rasterizer := newRasterizer(runner)
	store := memory.New([]byte(`{"active_units": []}`))
	out := filepath.Join(dir, "out")
	srv := New(store, stamp.New(afs.New(), DefaultPlaceholder, nil), rasterizer,
		WithTemplates(templates...),
		WithOutput(out, false),
		WithRaster(Raster{Enabled: true, DPI: 600}))

	output := &Output{}
	err := srv.Issue(ctx, &Input{Batch: "DD", Quantity: 1}, output)
	assert.NoError(t, err)
	assert.Len(t, runner.commands, 2)
	if assert.Len(t, output.Notes, 1) {
		files := output.Notes[0].Files
		assert.Equal(t, filepath.Join(out, "SLS-DD100012_FRONT.svg"), files["front"])
		assert.Equal(t, filepath.Join(out, "SLS-DD100012_BACK.png"), files["back_png"])
	}
	content, err := os.ReadFile(filepath.Join(out, "SLS-DD100012_BACK.svg"))
	assert.NoError(t, err)
	assert.Contains(t, string(content), "SLS-DD100012")
}

func TestService_IssueRasterizeFailure(t *testing.T) {
	stubClock(t)
	ctx := context.Background()
	dir := t.TempDir()
	templates := writeTemplates(t, dir)
	out := filepath.Join(dir, "out")
	original := []byte(`{"active_units": [], "total_issued": 0}`)
	store := memory.New(original)
	// the third command rasterizes the front of the second note
	runner := &fakeRunner{failAt: 3}
	srv := New(store, stamp.New(afs.New(), DefaultPlaceholder, nil), newRasterizer(runner),
		WithTemplates(templates...),
		WithOutput(out, false))

	output := &Output{}
	err := srv.Issue(ctx, &Input{Batch: "AA", Quantity: 2, Rasterize: true}, output)
	assert.Error(t, err)
	if assert.Len(t, output.Notes, 1) {
		assert.Equal(t, "SLS-AA100012", output.Notes[0].ID)
	}
	document, err := ledger.Decode(store.Data())
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, 1, document.Len())
	for _, name := range []string{"SLS-AA100012_FRONT.svg", "SLS-AA100012_BACK.svg"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"SLS-AA100023_FRONT.svg", "SLS-AA100023_BACK.svg"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.True(t, os.IsNotExist(err), name)
	}

	retry := New(store, stamp.New(afs.New(), DefaultPlaceholder, nil), nil,
		WithTemplates(templates...),
		WithOutput(out, false))
	output = &Output{}
	if !assert.NoError(t, retry.Issue(ctx, &Input{Batch: "AA", Quantity: 1}, output)) {
		return
	}
	if assert.Len(t, output.Notes, 1) {
		assert.Equal(t, "SLS-AA100023", output.Notes[0].ID)
	}
}

func TestService_Next(t *testing.T) {
	store := memory.New([]byte(`{"banknotes": [{"id": "SLS-EE123459"}]}`))
	srv := New(store, nil, nil)
	method, err := srv.Method("next")
	if !assert.NoError(t, err) {
		return
	}
	output := &NextOutput{}
	assert.NoError(t, method(context.Background(), &NextInput{Batch: "ee"}, output))
	assert.Equal(t, 12346, output.Sequence)
	assert.Equal(t, "SLS-EE123466", output.ID)
}
