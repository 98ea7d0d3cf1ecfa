package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/mint/service/ledger"
)

// Service keeps an encoded ledger in memory. It backs dry runs and tests.
type Service struct {
	data []byte
	mux  sync.RWMutex
}

var _ ledger.Store = (*Service)(nil)

// URL returns a synthetic location
func (s *Service) URL() string {
	return "memory://ledger.json"
}

func (s *Service) Exists(_ context.Context) (bool, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.data != nil, nil
}

func (s *Service) Load(_ context.Context) (*ledger.Document, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if s.data == nil {
		return nil, ledger.ErrNotFound
	}
	return ledger.Decode(s.data)
}

func (s *Service) Save(_ context.Context, document *ledger.Document) error {
	if document == nil {
		return fmt.Errorf("cannot save nil ledger")
	}
	data, err := document.Encode()
	if err != nil {
		return err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.data = data
	return nil
}

func (s *Service) Create(ctx context.Context, document *ledger.Document) error {
	if exists, _ := s.Exists(ctx); exists {
		return ledger.ErrExists
	}
	return s.Save(ctx, document)
}

// Data returns the encoded ledger
func (s *Service) Data() []byte {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.data
}

// New creates a store seeded with encoded ledger content; nil means no ledger.
func New(data []byte) *Service {
	return &Service{data: data}
}
