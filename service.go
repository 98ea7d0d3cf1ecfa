package mint

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/mint/extension"
	"github.com/viant/mint/model"
	"github.com/viant/mint/model/types"
	"github.com/viant/mint/service/dao"
	"github.com/viant/mint/service/dao/note"
	"github.com/viant/mint/service/issuer"
	"github.com/viant/mint/service/ledger"
	lfs "github.com/viant/mint/service/ledger/fs"
	"github.com/viant/mint/service/prompt"
	"github.com/viant/mint/service/raster"
	"github.com/viant/mint/service/stamp"
	"github.com/viant/mint/service/verifier"
	"github.com/viant/mint/tracing"
	"go.uber.org/zap"
)

// Service wires the ledger, stamping, rasterization and verification services
type Service struct {
	config            *Config
	fs                afs.Service
	logger            *zap.Logger
	store             ledger.Store
	stamper           *stamp.Service
	rasterizer        *raster.Service
	runnerFactory     raster.RunnerFactory
	issuer            *issuer.Service
	notes             *note.Service
	verifier          *verifier.Service
	prompt            *prompt.Service
	actions           *extension.Actions
	extensionServices []types.Service
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}
	s.stamper = stamp.New(s.fs, s.config.Series.Placeholder, s.logger)
	rasterOptions := []raster.Option{raster.WithLogger(s.logger)}
	if s.runnerFactory != nil {
		rasterOptions = append(rasterOptions, raster.WithRunnerFactory(s.runnerFactory))
	}
	s.rasterizer = raster.New(rasterOptions...)
	s.issuer = issuer.New(s.store, s.stamper, s.rasterizer,
		issuer.WithSeries(s.config.Series),
		issuer.WithTemplates(s.config.Templates...),
		issuer.WithOutput(s.config.Output.URL, s.config.Output.Overwrite),
		issuer.WithRaster(s.config.Raster),
		issuer.WithLogger(s.logger))
	s.notes = note.New(s.store)
	s.verifier = verifier.New(s.notes, s.config.Series.Prefix, s.logger)

	s.actions = extension.NewActions(s.issuer, s.notes, s.verifier, s.stamper, s.rasterizer, s.prompt)
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
	return nil
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	s.config.Series.Init()
	s.config.Raster.Init()
	s.config.Resolve("")
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.prompt == nil {
		s.prompt = prompt.New()
	}
	if s.store == nil {
		store, err := lfs.New(s.config.Ledger.URL, lfs.WithFs(s.fs), lfs.WithBackup(s.config.Ledger.Backup))
		if err != nil {
			return err
		}
		s.store = store
	}
	return nil
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Actions returns registered action services
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Prompt returns the interactive prompt service
func (s *Service) Prompt() *prompt.Service {
	return s.prompt
}

// Call invokes an action service method by name
func (s *Service) Call(ctx context.Context, service, method string, input, output interface{}) error {
	return s.actions.Call(ctx, service, method, input, output)
}

// InitLedger creates an empty ledger; it fails with ledger.ErrExists when one is present.
func (s *Service) InitLedger(ctx context.Context) error {
	if err := s.store.Create(ctx, ledger.NewDocument()); err != nil {
		return err
	}
	s.logger.Info("ledger created", zap.String("url", s.store.URL()))
	return nil
}

// Issue mints a batch of notes
func (s *Service) Issue(ctx context.Context, input *issuer.Input) (*issuer.Output, error) {
	output := &issuer.Output{}
	err := s.issuer.Issue(ctx, input, output)
	return output, err
}

// Next returns the next sequence of a batch
func (s *Service) Next(ctx context.Context, batch string) (*issuer.NextOutput, error) {
	output := &issuer.NextOutput{}
	if err := s.Call(ctx, issuer.Name, "next", &issuer.NextInput{Batch: batch}, output); err != nil {
		return nil, err
	}
	return output, nil
}

// Verify checks an identifier against the checksum rule and the ledger
func (s *Service) Verify(ctx context.Context, id string) (*verifier.Output, error) {
	output := &verifier.Output{}
	if err := s.verifier.Verify(ctx, &verifier.Input{ID: id}, output); err != nil {
		return nil, err
	}
	return output, nil
}

// Notes lists ledger notes filtered by batches and statuses; empty filters match all.
func (s *Service) Notes(ctx context.Context, batches, statuses []string) ([]*model.Note, error) {
	var parameters []*dao.Parameter
	if len(batches) > 0 {
		parameters = append(parameters, dao.NewParameter(dao.ParameterBatch, batches...))
	}
	if len(statuses) > 0 {
		parameters = append(parameters, dao.NewParameter(dao.ParameterStatus, statuses...))
	}
	return s.notes.List(ctx, parameters...)
}

// Void withdraws a note from circulation
func (s *Service) Void(ctx context.Context, id string) (*model.Note, error) {
	voided, err := s.notes.Void(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to void %v: %w", id, err)
	}
	s.logger.Info("note voided", zap.String("id", voided.ID))
	return voided, nil
}

// Close releases rasterizer sessions and flushes traces
func (s *Service) Close(ctx context.Context) error {
	if err := s.rasterizer.Close(); err != nil {
		return err
	}
	return tracing.Shutdown(ctx)
}

// New creates a mint service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
