package raster

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	commands []string
	stdout   string
	status   int
	err      error
	closed   bool
}

func (f *fakeRunner) Run(ctx context.Context, command string, timeoutMs int) (string, int, error) {
	f.commands = append(f.commands, command)
	return f.stdout, f.status, f.err
}

func (f *fakeRunner) Close() error {
	f.closed = true
	return nil
}

func TestService_Rasterize(t *testing.T) {
	testCases := []struct {
		description   string
		input         *Input
		runner        *fakeRunner
		expectCommand string
		expectDest    string
		expectErr     bool
	}{
		{
			description:   "default command",
			input:         &Input{Source: "/tmp/out/SLS-AA100012_FRONT.svg"},
			runner:        &fakeRunner{},
			expectCommand: "inkscape '/tmp/out/SLS-AA100012_FRONT.svg' --export-type=png --export-dpi=300 --export-filename='/tmp/out/SLS-AA100012_FRONT.png'",
			expectDest:    "/tmp/out/SLS-AA100012_FRONT.png",
		},
		{
			description:   "custom template with quoted path",
			input:         &Input{Source: "/tmp/it's/a.svg", Format: "pdf", DPI: 150, Command: "rsvg-convert -f ${format} -d ${dpi} -o ${output} ${input}"},
			runner:        &fakeRunner{},
			expectCommand: `rsvg-convert -f pdf -d 150 -o '/tmp/it'\''s/a.pdf' '/tmp/it'\''s/a.svg'`,
			expectDest:    "/tmp/it's/a.pdf",
		},
		{
			description: "non zero status",
			input:       &Input{Source: "/tmp/a.svg"},
			runner:      &fakeRunner{status: 127, stdout: "inkscape: command not found"},
			expectErr:   true,
		},
		{
			description: "runner error",
			input:       &Input{Source: "/tmp/a.svg"},
			runner:      &fakeRunner{err: errors.New("timeout")},
			expectErr:   true,
		},
		{
			description: "non file location",
			input:       &Input{Source: "mem://localhost/a.svg"},
			runner:      &fakeRunner{},
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		runner := testCase.runner
		srv := New(WithRunnerFactory(func(ctx context.Context, host *Host, env map[string]string) (Runner, error) {
			return runner, nil
		}))
		output := &Output{}
		err := srv.Rasterize(context.Background(), testCase.input, output)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expectCommand, output.Command, testCase.description)
		assert.Equal(t, testCase.expectDest, output.Dest, testCase.description)
		assert.Equal(t, []string{testCase.expectCommand}, runner.commands, testCase.description)
	}
}

func TestService_SessionReuse(t *testing.T) {
	created := 0
	runner := &fakeRunner{}
	srv := New(WithRunnerFactory(func(ctx context.Context, host *Host, env map[string]string) (Runner, error) {
		created++
		return runner, nil
	}))
	for i := 0; i < 3; i++ {
		assert.NoError(t, srv.Rasterize(context.Background(), &Input{Source: "/tmp/a.svg"}, &Output{}))
	}
	assert.Equal(t, 1, created)
	assert.NoError(t, srv.Close())
	assert.True(t, runner.closed)
}

func TestService_Method(t *testing.T) {
	srv := New()
	_, err := srv.Method("rasterize")
	assert.NoError(t, err)
	_, err = srv.Method("unknown")
	assert.Error(t, err)
}
