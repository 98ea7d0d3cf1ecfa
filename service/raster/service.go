package raster

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/mint/internal/expr"
	"github.com/viant/mint/model/types"
	"github.com/viant/mint/tracing"
	"go.uber.org/zap"
)

const Name = "mint/raster"

// Service runs an external rasterizer over stamped vector files
type Service struct {
	sessions  map[string]Runner
	newRunner RunnerFactory
	logger    *zap.Logger
	mux       sync.Mutex
}

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name: "rasterize",
			Description: `Converts a local vector file into a raster image by running the configured command.
The command template may reference ${input}, ${output}, ${format}, ${dpi} and ${env.KEY}.`,
			Input:  reflect.TypeOf(&Input{}),
			Output: reflect.TypeOf(&Output{}),
		}}
}

// Method returns method by Name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "rasterize":
		return s.rasterize, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) rasterize(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Rasterize(ctx, input, output)
}

// Rasterize expands the command template and runs it. A non zero exit
// status is returned as an error.
func (s *Service) Rasterize(ctx context.Context, input *Input, output *Output) (err error) {
	if input.Source == "" {
		return fmt.Errorf("source is required")
	}
	input.Init()
	for _, location := range []string{input.Source, input.Dest} {
		if scheme := url.Scheme(location, file.Scheme); scheme != file.Scheme {
			return fmt.Errorf("rasterizer requires file locations, but had %v: %v", scheme, location)
		}
	}
	ctx, span := tracing.StartSpan(ctx, "mint.rasterize", "CLIENT")
	defer func() { tracing.EndSpan(span, err) }()

	command := Command(input)
	span.WithAttributes(map[string]string{"mint.command": command})
	session, err := s.session(ctx, input.Host, input.Env)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	s.logger.Debug("rasterizing", zap.String("command", command), zap.String("host", input.Host.URL))
	stdout, status, runErr := session.Run(ctx, command, input.TimeoutMs)
	output.Command = command
	output.Dest = input.Dest
	output.Status = status
	if status == 0 && runErr == nil {
		output.Stdout = stdout
		return nil
	}
	output.Stderr = stdout
	if output.Stderr == "" && runErr != nil {
		output.Stderr = runErr.Error()
	}
	return fmt.Errorf("rasterizer failed with status %d: %s", status, strings.TrimSpace(output.Stderr))
}

// Command expands the command template for the input
func Command(input *Input) string {
	return expr.Expand(input.Command, expr.MapLookup(map[string]string{
		"input":  shellQuote(url.Path(input.Source)),
		"output": shellQuote(url.Path(input.Dest)),
		"format": input.Format,
		"dpi":    strconv.Itoa(input.DPI),
	}))
}

func (s *Service) session(ctx context.Context, host *Host, env map[string]string) (Runner, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if session, ok := s.sessions[host.URL]; ok {
		return session, nil
	}
	session, err := s.newRunner(ctx, host, env)
	if err != nil {
		return nil, err
	}
	s.sessions[host.URL] = session
	return session, nil
}

// Close releases all sessions held by this service
func (s *Service) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var errs []string
	for id, session := range s.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to close session %s: %v", id, err))
		}
	}
	s.sessions = make(map[string]Runner)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %s", strings.Join(errs, "; "))
	}
	return nil
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// Option customises the service
type Option func(s *Service)

// WithRunnerFactory replaces the gosh backed runner factory
func WithRunnerFactory(factory RunnerFactory) Option {
	return func(s *Service) {
		s.newRunner = factory
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a new Service instance
func New(options ...Option) *Service {
	ret := &Service{sessions: make(map[string]Runner)}
	for _, option := range options {
		option(ret)
	}
	if ret.newRunner == nil {
		ret.newRunner = NewGoshRunner
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}
