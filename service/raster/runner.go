package raster

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"
)

// Runner executes shell commands
type Runner interface {
	Run(ctx context.Context, command string, timeoutMs int) (stdout string, status int, err error)
	Close() error
}

// RunnerFactory creates a runner for the host
type RunnerFactory func(ctx context.Context, host *Host, env map[string]string) (Runner, error)

type goshRunner struct {
	service *gosh.Service
}

func (r *goshRunner) Run(ctx context.Context, command string, timeoutMs int) (string, int, error) {
	return r.service.Run(ctx, command, runner.WithTimeout(timeoutMs))
}

func (r *goshRunner) Close() error {
	return r.service.Close()
}

// NewGoshRunner starts a local bash session for localhost, or an ssh session
// authenticated with scy credentials otherwise.
func NewGoshRunner(ctx context.Context, host *Host, env map[string]string) (Runner, error) {
	var options []runner.Option
	if len(env) > 0 {
		options = append(options, runner.WithEnvironment(env))
	}
	if host.IsLocal() {
		service, err := gosh.New(ctx, local.New(options...))
		if err != nil {
			return nil, err
		}
		return &goshRunner{service: service}, nil
	}
	config, err := sshConfig(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("failed to get SSH config: %w", err)
	}
	sshHost := url.Host(host.URL)
	if !strings.Contains(sshHost, ":") {
		sshHost += ":22"
	}
	service, err := gosh.New(ctx, rssh.New(sshHost, config, options...))
	if err != nil {
		return nil, err
	}
	return &goshRunner{service: service}, nil
}

func sshConfig(ctx context.Context, host *Host) (*ssh.ClientConfig, error) {
	credentials := host.Credentials
	if credentials == "" {
		credentials = "localhost"
	}
	secrets := secret.New()
	generic, err := secrets.GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}
