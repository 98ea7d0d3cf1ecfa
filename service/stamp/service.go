package stamp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/mint/model/types"
	"github.com/viant/mint/tracing"
	"go.uber.org/zap"
)

const Name = "mint/stamp"

const defaultExt = ".svg"

var (
	// ErrTemplateNotFound is returned when a template location does not exist.
	ErrTemplateNotFound = errors.New("stamp: template not found")
	// ErrOutputExists is returned when an output file would be overwritten.
	ErrOutputExists = errors.New("stamp: output already exists")
)

// Input defines a single stamping request
type Input struct {
	ID        string      `json:"id" required:"true" description:"identifier substituted for the placeholder"`
	Templates []*Template `json:"templates" required:"true" description:"loaded templates"`
	Dest      string      `json:"dest" required:"true" description:"output location"`
	Overwrite bool        `json:"overwrite,omitempty" description:"replace existing output files"`
	DryRun    bool        `json:"dryRun,omitempty" description:"compute outputs without writing"`
}

// Output contains written assets
type Output struct {
	Assets []*Asset `json:"assets,omitempty"`
}

// Service substitutes the placeholder token in templates and writes results
type Service struct {
	fs          afs.Service
	placeholder []byte
	logger      *zap.Logger
}

// Name returns the service name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "stamp",
			Description: "Replaces the placeholder token in every template with the identifier and writes <id>_<SIDE><ext> files.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "stamp":
		return s.stamp, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) stamp(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Stamp(ctx, input, output)
}

// Load reads template content; every template must exist.
func (s *Service) Load(ctx context.Context, templates []*Template) error {
	if len(templates) == 0 {
		return fmt.Errorf("at least one template is required")
	}
	for _, template := range templates {
		if template.URL == "" {
			return fmt.Errorf("template %v: url is required", template.Side)
		}
		exists, err := s.fs.Exists(ctx, template.URL)
		if err != nil {
			return fmt.Errorf("failed to check if %s exists: %w", template.URL, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrTemplateNotFound, template.URL)
		}
		if template.Content, err = s.fs.DownloadWithURL(ctx, template.URL); err != nil {
			return fmt.Errorf("failed to read template %s: %w", template.URL, err)
		}
		if !bytes.Contains(template.Content, s.placeholder) {
			s.logger.Warn("template has no placeholder",
				zap.String("template", template.URL),
				zap.String("placeholder", string(s.placeholder)))
		}
	}
	return nil
}

// EnsureDest creates the output location when missing
func (s *Service) EnsureDest(ctx context.Context, dest string) error {
	exists, err := s.fs.Exists(ctx, dest)
	if err != nil {
		return fmt.Errorf("failed to check if %s exists: %w", dest, err)
	}
	if exists {
		return nil
	}
	if err = s.fs.Create(ctx, dest, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create output %s: %w", dest, err)
	}
	return nil
}

// Stamp writes one output per template with the placeholder replaced by ID.
// When a write fails, outputs already written for ID are removed.
func (s *Service) Stamp(ctx context.Context, input *Input, output *Output) (err error) {
	if input.ID == "" {
		return fmt.Errorf("id is required")
	}
	if len(s.placeholder) == 0 {
		return fmt.Errorf("placeholder is required")
	}
	ctx, span := tracing.StartSpan(ctx, "mint.stamp", "INTERNAL")
	span.WithAttributes(map[string]string{"mint.id": input.ID})
	defer func() { tracing.EndSpan(span, err) }()

	assets := make([]*Asset, 0, len(input.Templates))
	for _, template := range input.Templates {
		asset := &Asset{Side: template.Side, Name: OutputName(input.ID, template)}
		asset.URL = url.Join(input.Dest, asset.Name)
		asset.ContentType = GetContentType(asset.Name)
		content := bytes.ReplaceAll(template.Content, s.placeholder, []byte(input.ID))
		asset.Size = int64(len(content))
		if !input.DryRun {
			if err = s.write(ctx, asset.URL, content, input.Overwrite); err != nil {
				written := make([]string, 0, len(assets))
				for _, prev := range assets {
					written = append(written, prev.URL)
				}
				return errors.Join(err, s.Remove(ctx, written...))
			}
		}
		assets = append(assets, asset)
	}
	output.Assets = assets
	return nil
}

func (s *Service) write(ctx context.Context, location string, content []byte, overwrite bool) error {
	if !overwrite {
		exists, err := s.fs.Exists(ctx, location)
		if err != nil {
			return fmt.Errorf("failed to check if %s exists: %w", location, err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrOutputExists, location)
		}
	}
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return nil
}

// Remove deletes the given outputs; missing ones are skipped.
func (s *Service) Remove(ctx context.Context, locations ...string) error {
	var errs []error
	for _, location := range locations {
		exists, err := s.fs.Exists(ctx, location)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to check if %s exists: %w", location, err))
			continue
		}
		if !exists {
			continue
		}
		if err = s.fs.Delete(ctx, location); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", location, err))
			continue
		}
		s.logger.Debug("removed output", zap.String("url", location))
	}
	return errors.Join(errs...)
}

// OutputName returns <id>_<SIDE><ext>, where ext is taken from the template.
func OutputName(id string, template *Template) string {
	ext := path.Ext(url.Path(template.URL))
	if ext == "" {
		ext = defaultExt
	}
	return fmt.Sprintf("%s_%s%s", id, strings.ToUpper(template.Side), ext)
}

// New creates a stamping service
func New(fs afs.Service, placeholder string, logger *zap.Logger) *Service {
	if fs == nil {
		fs = afs.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fs: fs, placeholder: []byte(placeholder), logger: logger}
}
