package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/viant/mint/model/serial"
	"github.com/viant/mint/model/types"
)

const Name = "mint/prompt"

// Service collects issue parameters interactively. Tests can substitute
// Reader/Writer to avoid TTY requirements.
type Service struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Service that reads from stdin and writes to stdout.
func New() *Service {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO lets callers override the input/output streams.
func NewWithIO(in io.Reader, out io.Writer) *Service {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Service{in: bufio.NewReader(in), out: out}
}

type AskInput struct {
	Message string `json:"message,omitempty"`
	Default string `json:"default,omitempty"`
}

type AskOutput struct {
	Text string `json:"text,omitempty"`
}

// IssueInput carries values already known; only missing ones are asked for.
type IssueInput struct {
	Batch    string `json:"batch,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

type IssueOutput struct {
	Batch    string `json:"batch"`
	Quantity int    `json:"quantity"`
}

// Ask prints message and returns the trimmed answer or Default.
func (s *Service) Ask(ctx context.Context, input *AskInput, output *AskOutput) error {
	prompt := strings.TrimSpace(input.Message)
	if prompt == "" {
		prompt = "?"
	}
	if input.Default != "" {
		prompt += " [" + input.Default + "]"
	}
	fmt.Fprint(s.out, prompt+" ")

	response, err := s.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	response = strings.TrimSpace(response)
	if response == "" {
		response = input.Default
	}
	output.Text = response
	return nil
}

// Issue asks for the batch code and quantity. A zero quantity is asked for;
// a negative one is rejected.
func (s *Service) Issue(ctx context.Context, input *IssueInput, output *IssueOutput) error {
	batch := input.Batch
	if batch == "" {
		answer := &AskOutput{}
		if err := s.Ask(ctx, &AskInput{Message: "Batch code (e.g. AA):"}, answer); err != nil {
			return err
		}
		batch = answer.Text
	}
	var err error
	if output.Batch, err = serial.NormalizeBatch(batch); err != nil {
		return err
	}
	if input.Quantity < 0 {
		return fmt.Errorf("invalid quantity %d: expected a positive number", input.Quantity)
	}
	output.Quantity = input.Quantity
	if output.Quantity > 0 {
		return nil
	}
	answer := &AskOutput{}
	if err = s.Ask(ctx, &AskInput{Message: "How many notes to issue?"}, answer); err != nil {
		return err
	}
	quantity, err := strconv.Atoi(answer.Text)
	if err != nil || quantity <= 0 {
		return fmt.Errorf("invalid quantity %q: expected a positive number", answer.Text)
	}
	output.Quantity = quantity
	return nil
}

func (s *Service) ask(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*AskInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*AskOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Ask(ctx, input, output)
}

func (s *Service) issue(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*IssueInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*IssueOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Issue(ctx, input, output)
}

func (s *Service) Name() string { return Name }

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "ask",
			Description: "Prompts the user for free-form input and returns the response.",
			Input:       reflect.TypeOf(&AskInput{}),
			Output:      reflect.TypeOf(&AskOutput{}),
		},
		{
			Name:        "issue",
			Description: "Prompts for the batch code and quantity of an issue run.",
			Input:       reflect.TypeOf(&IssueInput{}),
			Output:      reflect.TypeOf(&IssueOutput{}),
		},
	}
}

func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "ask":
		return s.ask, nil
	case "issue":
		return s.issue, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
