package note

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/mint/model"
	"github.com/viant/mint/service/dao"
	"github.com/viant/mint/service/dao/criteria"
	"github.com/viant/mint/service/ledger"
)

// Service exposes ledger records as a dao.Service keyed by note id.
type Service struct {
	store ledger.Store
	mux   sync.Mutex
}

var _ dao.Service[string, model.Note] = (*Service)(nil)

// Save updates an existing note. New notes are only added through issuance.
func (s *Service) Save(ctx context.Context, note *model.Note) error {
	if note == nil {
		return dao.ErrNilEntity
	}
	if note.ID == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()

	document, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	_, index, err := document.Lookup(note.ID)
	if err != nil {
		return err
	}
	if index == -1 {
		return fmt.Errorf("%w: %v", dao.ErrNotFound, note.ID)
	}
	if err = document.Replace(index, note); err != nil {
		return err
	}
	return s.store.Save(ctx, document)
}

func (s *Service) Load(ctx context.Context, id string) (*model.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	document, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	note, _, err := document.Lookup(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("%w: %v", dao.ErrNotFound, id)
	}
	return note, nil
}

// List returns notes matching Batch and Status parameters.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Note, error) {
	document, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := document.Notes()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if !criteria.Match(dao.ParameterBatch, note.Batch, parameters) {
			continue
		}
		if !criteria.Match(dao.ParameterStatus, note.Status, parameters) {
			continue
		}
		out = append(out, note)
	}
	return out, nil
}

// Void withdraws a note from circulation. The record stays in the ledger so
// its sequence is never reissued.
func (s *Service) Void(ctx context.Context, id string) (*model.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()

	document, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	note, index, err := document.Lookup(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("%w: %v", dao.ErrNotFound, id)
	}
	if note.Status == model.StatusVoid {
		return note, nil
	}
	note.Status = model.StatusVoid
	if err = document.Replace(index, note); err != nil {
		return nil, err
	}
	if err = s.store.Save(ctx, document); err != nil {
		return nil, err
	}
	return note, nil
}

// New creates a note DAO over the ledger store.
func New(store ledger.Store) *Service {
	return &Service{store: store}
}
