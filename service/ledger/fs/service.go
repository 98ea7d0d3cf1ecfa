package fs

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/mint/service/ledger"
)

const (
	tempSuffix   = ".tmp"
	backupSuffix = ".bak"
)

// Service implements a ledger.Store on top of any afs supported location.
// Local files are replaced through a temporary file and a rename so that a
// failed write never truncates the ledger.
type Service struct {
	location string
	fs       afs.Service
	backup   bool
	mu       sync.RWMutex
}

// Ensure Service implements ledger.Store
var _ ledger.Store = (*Service)(nil)

// Option customises the store.
type Option func(s *Service)

// WithFs sets the afs service.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithBackup keeps the previous ledger content next to the ledger as *.bak.
func WithBackup(backup bool) Option {
	return func(s *Service) {
		s.backup = backup
	}
}

// URL returns the ledger location
func (s *Service) URL() string {
	return s.location
}

// Exists checks if the ledger exists
func (s *Service) Exists(ctx context.Context) (bool, error) {
	exists, err := s.fs.Exists(ctx, s.location)
	if err != nil {
		return false, fmt.Errorf("failed to check if ledger %s exists: %w", s.location, err)
	}
	return exists, nil
}

// Load reads and decodes the ledger
func (s *Service) Load(ctx context.Context) (*ledger.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exists, err := s.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ledger.ErrNotFound, s.location)
	}
	data, err := s.fs.DownloadWithURL(ctx, s.location)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", s.location, err)
	}
	document, err := ledger.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ledger %s: %w", s.location, err)
	}
	return document, nil
}

// Save encodes and writes the ledger
func (s *Service) Save(ctx context.Context, document *ledger.Document) error {
	if document == nil {
		return fmt.Errorf("cannot save nil ledger")
	}
	data, err := document.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backup {
		if err = s.backupCurrent(ctx); err != nil {
			return err
		}
	}
	return s.write(ctx, data)
}

// Create writes a new ledger, failing if one exists already
func (s *Service) Create(ctx context.Context, document *ledger.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ledger.ErrExists, s.location)
	}
	data, err := document.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return s.write(ctx, data)
}

func (s *Service) write(ctx context.Context, data []byte) error {
	if url.Scheme(s.location, file.Scheme) != file.Scheme {
		if err := s.fs.Upload(ctx, s.location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write ledger %s: %w", s.location, err)
		}
		return nil
	}
	temp := s.location + tempSuffix
	if err := s.fs.Upload(ctx, temp, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write ledger %s: %w", temp, err)
	}
	if err := s.fs.Move(ctx, temp, s.location); err != nil {
		_ = s.fs.Delete(ctx, temp)
		return fmt.Errorf("failed to replace ledger %s: %w", s.location, err)
	}
	return nil
}

func (s *Service) backupCurrent(ctx context.Context) error {
	exists, err := s.Exists(ctx)
	if err != nil || !exists {
		return err
	}
	data, err := s.fs.DownloadWithURL(ctx, s.location)
	if err != nil {
		return fmt.Errorf("failed to read ledger %s: %w", s.location, err)
	}
	backup := s.location + backupSuffix
	if err = s.fs.Upload(ctx, backup, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write ledger backup %s: %w", backup, err)
	}
	return nil
}

// New creates a ledger store for the supplied location
func New(location string, options ...Option) (*Service, error) {
	if location == "" {
		return nil, fmt.Errorf("ledger location cannot be empty")
	}
	ret := &Service{location: url.Normalize(location, file.Scheme)}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret, nil
}
