package mint

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/mint/internal/expr"
	"github.com/viant/mint/model/serial"
	"github.com/viant/mint/service/issuer"
	"github.com/viant/mint/service/stamp"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the mint configuration. It is
// usually loaded from YAML; ${env.KEY} expressions are expanded first.
type Config struct {
	Ledger    LedgerConfig      `json:"ledger" yaml:"ledger"`
	Series    issuer.Series     `json:"series" yaml:"series"`
	Templates []*stamp.Template `json:"templates" yaml:"templates"`
	Output    OutputConfig      `json:"output" yaml:"output"`
	Raster    issuer.Raster     `json:"raster" yaml:"raster"`
	Tracing   TracingConfig     `json:"tracing" yaml:"tracing"`
}

type LedgerConfig struct {
	URL    string `json:"url" yaml:"url"`
	Backup bool   `json:"backup,omitempty" yaml:"backup,omitempty"`
}

type OutputConfig struct {
	URL       string `json:"url" yaml:"url"`
	Overwrite bool   `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DefaultConfig returns a Config with the layout used by a mint working
// directory: ledger.json, templates/{front,back}_10.svg and output_mint.
func DefaultConfig() *Config {
	ret := &Config{
		Ledger: LedgerConfig{URL: "ledger.json"},
		Templates: []*stamp.Template{
			{Side: "front", URL: "templates/front_10.svg"},
			{Side: "back", URL: "templates/back_10.svg"},
		},
		Output: OutputConfig{URL: "output_mint"},
	}
	ret.Series.Init()
	ret.Raster.Init()
	return ret
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Ledger.URL == "" {
		return fmt.Errorf("ledger.url is required")
	}
	if _, err := serial.NormalizeBatch(c.Series.Prefix); err != nil || strings.TrimSpace(c.Series.Prefix) != c.Series.Prefix {
		return fmt.Errorf("series.prefix %q must contain letters and digits only", c.Series.Prefix)
	}
	if c.Series.Placeholder == "" {
		return fmt.Errorf("series.placeholder is required")
	}
	if c.Series.StartSequence < 0 || c.Series.StartSequence >= serial.MaxSequence {
		return fmt.Errorf("series.startSequence must be in [0, %d)", serial.MaxSequence)
	}
	if c.Series.Denomination <= 0 {
		return fmt.Errorf("series.denomination must be > 0")
	}
	if len(c.Templates) == 0 {
		return fmt.Errorf("at least one template is required")
	}
	sides := map[string]bool{}
	for i, template := range c.Templates {
		if template == nil || template.Side == "" || template.URL == "" {
			return fmt.Errorf("templates[%d]: side and url are required", i)
		}
		side := strings.ToUpper(template.Side)
		if sides[side] {
			return fmt.Errorf("templates[%d]: duplicate side %v", i, template.Side)
		}
		sides[side] = true
	}
	if c.Output.URL == "" {
		return fmt.Errorf("output.url is required")
	}
	if c.Raster.DPI <= 0 {
		return fmt.Errorf("raster.dpi must be > 0")
	}
	return nil
}

// Resolve turns relative locations into absolute URLs. Relative paths are
// taken from baseURL when set, or the working directory otherwise.
func (c *Config) Resolve(baseURL string) {
	c.Ledger.URL = resolve(baseURL, c.Ledger.URL)
	c.Output.URL = resolve(baseURL, c.Output.URL)
	for _, template := range c.Templates {
		if template != nil {
			template.URL = resolve(baseURL, template.URL)
		}
	}
}

func resolve(baseURL, location string) string {
	switch {
	case location == "" || strings.Contains(location, "://"):
		return location
	case path.IsAbs(location) || baseURL == "":
		return url.Normalize(location, file.Scheme)
	}
	return url.Join(url.Normalize(baseURL, file.Scheme), location)
}

// LoadConfig reads a YAML config over DefaultConfig. Relative locations are
// resolved against the config file directory.
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	URL = url.Normalize(URL, file.Scheme)
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(expr.Env(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	parent, _ := url.Split(URL, file.Scheme)
	ret.Resolve(parent)
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
