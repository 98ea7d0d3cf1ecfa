package issuer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/mint/internal/clock"
	"github.com/viant/mint/internal/idgen"
	"github.com/viant/mint/model"
	"github.com/viant/mint/model/serial"
	"github.com/viant/mint/model/types"
	"github.com/viant/mint/progress"
	"github.com/viant/mint/service/ledger"
	"github.com/viant/mint/service/raster"
	"github.com/viant/mint/service/stamp"
	"github.com/viant/mint/tracing"
	"go.uber.org/zap"
)

const Name = "mint/issuer"

// Input defines an issue request
type Input struct {
	Batch     string `json:"batch" required:"true" description:"batch code, letters and digits"`
	Quantity  int    `json:"quantity" required:"true" description:"number of notes to issue"`
	DryRun    bool   `json:"dryRun,omitempty" description:"compute notes and ledger diff without writing"`
	Overwrite bool   `json:"overwrite,omitempty" description:"replace existing output files"`
	Rasterize bool   `json:"rasterize,omitempty" description:"rasterize stamped files"`
}

// Output defines an issue result
type Output struct {
	RunID       string            `json:"runId"`
	Batch       string            `json:"batch"`
	Notes       []*model.Note     `json:"notes,omitempty"`
	Assets      []*stamp.Asset    `json:"assets,omitempty"`
	Circulation string            `json:"circulation,omitempty"`
	Diff        string            `json:"diff,omitempty"`
	DiffStats   *ledger.DiffStats `json:"diffStats,omitempty"`
}

// NextInput defines a next sequence request
type NextInput struct {
	Batch string `json:"batch" required:"true"`
}

// NextOutput defines the next sequence and the identifier it forms
type NextOutput struct {
	Sequence int    `json:"sequence"`
	ID       string `json:"id"`
}

// Service issues batches of notes
type Service struct {
	store      ledger.Store
	stamper    *stamp.Service
	rasterizer *raster.Service
	series     Series
	templates  []*stamp.Template
	dest       string
	overwrite  bool
	raster     Raster
	logger     *zap.Logger
	mux        sync.Mutex
}

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "issue",
			Description: "Issues quantity notes for a batch: stamps every template, optionally rasterizes, and appends the notes to the ledger.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
		{
			Name:        "next",
			Description: "Returns the next sequence for a batch without issuing.",
			Input:       reflect.TypeOf(&NextInput{}),
			Output:      reflect.TypeOf(&NextOutput{}),
		},
	}
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "issue":
		return s.issue, nil
	case "next":
		return s.next, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) issue(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Issue(ctx, input, output)
}

func (s *Service) next(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*NextInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*NextOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	batch, err := serial.NormalizeBatch(input.Batch)
	if err != nil {
		return err
	}
	document, err := s.load(ctx)
	if err != nil {
		return err
	}
	output.Sequence = document.NextSequence(s.series.Prefix, batch, s.series.StartSequence)
	if output.Sequence > serial.MaxSequence {
		return fmt.Errorf("%w: batch %v", ErrSequenceExhausted, batch)
	}
	sn, err := serial.New(s.series.Prefix, batch, output.Sequence)
	if err != nil {
		return err
	}
	output.ID = sn.String()
	return nil
}

// Issue mints a batch. Notes whose files were written are saved even when a
// later note fails, so the ledger never lags the output files. Files of the
// failing note are removed.
func (s *Service) Issue(ctx context.Context, input *Input, output *Output) (err error) {
	batch, err := serial.NormalizeBatch(input.Batch)
	if err != nil {
		return err
	}
	if input.Quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, input.Quantity)
	}
	s.mux.Lock()
	defer s.mux.Unlock()

	output.RunID = idgen.New()
	output.Batch = batch
	tracker, ok := progress.FromContext(ctx)
	if !ok {
		ctx, tracker = progress.WithNewTracker(ctx, output.RunID, batch, nil)
	}
	ctx, span := tracing.StartSpan(ctx, "mint.issue", "INTERNAL")
	span.WithAttributes(map[string]string{
		"mint.run_id":   output.RunID,
		"mint.batch":    batch,
		"mint.quantity": strconv.Itoa(input.Quantity),
	})
	defer func() { tracing.EndSpan(span, err) }()
	logger := s.logger.With(zap.String("runID", output.RunID), zap.String("batch", batch))

	document, err := s.load(ctx)
	if err != nil {
		return err
	}
	var before []byte
	if input.DryRun {
		if before, err = document.Encode(); err != nil {
			return err
		}
	}
	templates := s.copyTemplates()
	if err = s.stamper.Load(ctx, templates); err != nil {
		return err
	}
	if !input.DryRun {
		if err = s.stamper.EnsureDest(ctx, s.dest); err != nil {
			return err
		}
	}

	start := document.NextSequence(s.series.Prefix, batch, s.series.StartSequence)
	if last := start + input.Quantity - 1; last > serial.MaxSequence {
		return fmt.Errorf("%w: batch %v needs sequences %d-%d, max is %d", ErrSequenceExhausted, batch, start, last, serial.MaxSequence)
	}
	logger.Info("issuing", zap.Int("start", start), zap.Int("quantity", input.Quantity), zap.Bool("dryRun", input.DryRun))
	tracker.Update(progress.Delta{Requested: input.Quantity})

	rasterize := input.Rasterize || s.raster.Enabled
	var issueErr error
	for i := 0; i < input.Quantity; i++ {
		note, assets, err := s.issueOne(ctx, batch, start+i, templates, input, rasterize)
		if err != nil {
			tracker.Update(progress.Delta{Failed: 1})
			issueErr = err
			break
		}
		if err = document.Append(note); err != nil {
			issueErr = err
			break
		}
		output.Notes = append(output.Notes, note)
		output.Assets = append(output.Assets, assets...)
		tracker.Update(progress.Delta{Issued: 1})
		logger.Debug("issued", zap.String("id", note.ID))
	}
	if len(output.Notes) > 0 {
		if err = document.AddCirculation(s.series.Denomination * len(output.Notes)); err != nil {
			issueErr = errors.Join(issueErr, err)
		}
	}
	if circulation, ok := document.Circulation(); ok {
		output.Circulation = circulation.String()
	}

	if input.DryRun {
		if err = s.diff(document, before, output); err != nil {
			return err
		}
	} else if len(output.Notes) > 0 {
		if err = s.store.Save(ctx, document); err != nil {
			return fmt.Errorf("failed to save ledger %v: %w", s.store.URL(), err)
		}
	}
	if issueErr != nil {
		logger.Error("issue interrupted", zap.Int("issued", len(output.Notes)), zap.Error(issueErr))
		return fmt.Errorf("issued %d of %d notes: %w", len(output.Notes), input.Quantity, issueErr)
	}
	logger.Info("issued batch", zap.Int("issued", len(output.Notes)), zap.String("circulation", output.Circulation))
	return nil
}

func (s *Service) issueOne(ctx context.Context, batch string, sequence int, templates []*stamp.Template, input *Input, rasterize bool) (*model.Note, []*stamp.Asset, error) {
	sn, err := serial.New(s.series.Prefix, batch, sequence)
	if err != nil {
		return nil, nil, err
	}
	id := sn.String()
	stamped := &stamp.Output{}
	err = s.stamper.Stamp(ctx, &stamp.Input{
		ID:        id,
		Templates: templates,
		Dest:      s.dest,
		Overwrite: input.Overwrite || s.overwrite,
		DryRun:    input.DryRun,
	}, stamped)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stamp %v: %w", id, err)
	}
	progress.UpdateCtx(ctx, progress.Delta{Stamped: len(stamped.Assets)})

	note := &model.Note{
		ID:           id,
		Denomination: s.series.Denomination,
		Batch:        batch,
		Sequence:     sn.Sequence,
		Checksum:     sn.Checksum,
		Status:       model.StatusActive,
		IssueDate:    clock.Today(),
		Files:        make(map[string]string),
	}
	for _, asset := range stamped.Assets {
		note.Files[strings.ToLower(asset.Side)] = location(asset.URL)
	}
	if !rasterize {
		return note, stamped.Assets, nil
	}
	for _, asset := range stamped.Assets {
		key := strings.ToLower(asset.Side) + "_" + strings.ToLower(s.raster.Format)
		if input.DryRun {
			note.Files[key] = location(raster.DestFor(asset.URL, s.raster.Format))
			continue
		}
		rastered := &raster.Output{}
		if err = s.rasterizer.Rasterize(ctx, s.raster.input(asset.URL), rastered); err != nil {
			err = fmt.Errorf("failed to rasterize %v: %w", asset.Name, err)
			return nil, nil, errors.Join(err, s.discard(ctx, stamped.Assets))
		}
		note.Files[key] = location(rastered.Dest)
		progress.UpdateCtx(ctx, progress.Delta{Rasterized: 1})
	}
	return note, stamped.Assets, nil
}

// discard removes stamped files and their raster outputs for a note that
// will not be recorded.
func (s *Service) discard(ctx context.Context, assets []*stamp.Asset) error {
	locations := make([]string, 0, 2*len(assets))
	for _, asset := range assets {
		locations = append(locations, asset.URL, raster.DestFor(asset.URL, s.raster.Format))
	}
	return s.stamper.Remove(ctx, locations...)
}

func (s *Service) load(ctx context.Context) (*ledger.Document, error) {
	document, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load ledger %v: %w", s.store.URL(), err)
	}
	return document, nil
}

func (s *Service) diff(document *ledger.Document, before []byte, output *Output) error {
	after, err := document.Encode()
	if err != nil {
		return err
	}
	patch, stats, err := ledger.Diff(before, after, s.store.URL(), 3)
	if err != nil {
		return fmt.Errorf("failed to diff ledger: %w", err)
	}
	output.Diff = patch
	output.DiffStats = &stats
	return nil
}

func (s *Service) copyTemplates() []*stamp.Template {
	ret := make([]*stamp.Template, 0, len(s.templates))
	for _, template := range s.templates {
		ret = append(ret, &stamp.Template{Side: template.Side, URL: template.URL})
	}
	return ret
}

// location returns a plain path for local files and the URL otherwise.
func location(URL string) string {
	if url.Scheme(URL, file.Scheme) == file.Scheme {
		return url.Path(URL)
	}
	return URL
}

// New creates an issuer
func New(store ledger.Store, stamper *stamp.Service, rasterizer *raster.Service, options ...Option) *Service {
	ret := &Service{store: store, stamper: stamper, rasterizer: rasterizer}
	for _, option := range options {
		option(ret)
	}
	ret.series.Init()
	ret.raster.Init()
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.rasterizer == nil {
		ret.rasterizer = raster.New(raster.WithLogger(ret.logger))
	}
	if ret.stamper == nil {
		ret.stamper = stamp.New(nil, ret.series.Placeholder, ret.logger)
	}
	return ret
}
