package note

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/mint/model"
	"github.com/viant/mint/model/types"
	"github.com/viant/mint/service/dao"
)

const Name = "mint/notes"

// ListInput defines list filters
type ListInput struct {
	Batch  []string `json:"batch,omitempty" description:"batch codes to include, all when empty"`
	Status []string `json:"status,omitempty" description:"statuses to include, all when empty"`
}

// ListOutput contains listed notes
type ListOutput struct {
	Notes []*model.Note `json:"notes,omitempty"`
}

// VoidInput identifies a note to void
type VoidInput struct {
	ID string `json:"id" required:"true" description:"note identifier"`
}

// VoidOutput contains the voided note
type VoidOutput struct {
	Note *model.Note `json:"note,omitempty"`
}

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "list",
			Description: "Lists ledger notes filtered by batch and status.",
			Input:       reflect.TypeOf(&ListInput{}),
			Output:      reflect.TypeOf(&ListOutput{}),
		},
		{
			Name:        "void",
			Description: "Marks an issued note as void.",
			Input:       reflect.TypeOf(&VoidInput{}),
			Output:      reflect.TypeOf(&VoidOutput{}),
		},
	}
}

// Method returns method by name
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "list":
		return s.list, nil
	case "void":
		return s.void, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) list(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ListInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ListOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	var parameters []*dao.Parameter
	if len(input.Batch) > 0 {
		parameters = append(parameters, &dao.Parameter{Name: dao.ParameterBatch, Value: input.Batch})
	}
	if len(input.Status) > 0 {
		parameters = append(parameters, &dao.Parameter{Name: dao.ParameterStatus, Value: input.Status})
	}
	notes, err := s.List(ctx, parameters...)
	if err != nil {
		return err
	}
	output.Notes = notes
	return nil
}

func (s *Service) void(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*VoidInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*VoidOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	note, err := s.Void(ctx, input.ID)
	if err != nil {
		return err
	}
	output.Note = note
	return nil
}
