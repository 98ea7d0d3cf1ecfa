package verifier

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/mint/model"
	"github.com/viant/mint/model/serial"
	"github.com/viant/mint/model/types"
	"github.com/viant/mint/service/dao"
	"github.com/viant/mint/service/dao/note"
	"go.uber.org/zap"
)

const Name = "mint/verifier"

// Input defines a verification request
type Input struct {
	ID string `json:"id" required:"true" description:"identifier to verify"`
}

// Output reports verification findings
type Output struct {
	ID               string         `json:"id"`
	WellFormed       bool           `json:"wellFormed"`
	Reason           string         `json:"reason,omitempty"`
	Serial           *serial.Serial `json:"serial,omitempty"`
	PrefixMatch      bool           `json:"prefixMatch"`
	ChecksumValid    bool           `json:"checksumValid"`
	ExpectedChecksum int            `json:"expectedChecksum,omitempty"`
	Issued           bool           `json:"issued"`
	Status           string         `json:"status,omitempty"`
	Note             *model.Note    `json:"note,omitempty"`
}

// Valid reports whether the identifier is genuine and in circulation
func (o *Output) Valid() bool {
	return o.WellFormed && o.PrefixMatch && o.ChecksumValid && o.Issued && o.Status == model.StatusActive
}

// Service verifies identifiers against the checksum rule and the ledger
type Service struct {
	notes  *note.Service
	prefix string
	logger *zap.Logger
}

func (s *Service) Name() string {
	return Name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "verify",
			Description: "Parses an identifier, recomputes its checksum and looks it up in the ledger.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "verify":
		return s.verify, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) verify(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Verify(ctx, input, output)
}

// Verify fills output with findings. A malformed or unknown identifier is a
// finding, not an error; errors are returned only when the ledger cannot be read.
func (s *Service) Verify(ctx context.Context, input *Input, output *Output) error {
	output.ID = strings.TrimSpace(input.ID)
	sn, err := serial.Parse(output.ID)
	if err != nil {
		output.Reason = err.Error()
		return nil
	}
	output.WellFormed = true
	output.Serial = sn
	output.PrefixMatch = s.prefix == "" || sn.Prefix == s.prefix
	output.ChecksumValid = sn.Valid()
	if !output.ChecksumValid {
		output.ExpectedChecksum = serial.Checksum(sn.Sequence)
	}

	issued, err := s.notes.Load(ctx, output.ID)
	switch {
	case err == nil:
		output.Issued = true
		output.Status = issued.Status
		output.Note = issued
	case errors.Is(err, dao.ErrNotFound):
	default:
		return fmt.Errorf("failed to look up %v: %w", output.ID, err)
	}
	output.Reason = reason(output)
	s.logger.Debug("verified", zap.String("id", output.ID), zap.Bool("valid", output.Valid()), zap.String("reason", output.Reason))
	return nil
}

func reason(output *Output) string {
	switch {
	case !output.PrefixMatch:
		return fmt.Sprintf("unexpected prefix %v", output.Serial.Prefix)
	case !output.ChecksumValid:
		return fmt.Sprintf("checksum mismatch: expected %d", output.ExpectedChecksum)
	case !output.Issued:
		return "not issued"
	case output.Status != model.StatusActive:
		return "status " + output.Status
	}
	return ""
}

// New creates a verifier; an empty prefix accepts any prefix.
func New(notes *note.Service, prefix string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{notes: notes, prefix: prefix, logger: logger}
}
