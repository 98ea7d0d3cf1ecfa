package raster

import (
	"path"
	"strings"

	"github.com/viant/afs/url"
)

const (
	// DefaultCommand invokes Inkscape; ${input}, ${output}, ${format} and
	// ${dpi} are expanded, paths are shell quoted.
	DefaultCommand   = "inkscape ${input} --export-type=${format} --export-dpi=${dpi} --export-filename=${output}"
	DefaultFormat    = "png"
	DefaultDPI       = 300
	DefaultTimeoutMs = 60000
	localhostURL     = "bash://localhost/"
)

// Host represents rasterizer host
type Host struct {
	URL         string `json:"url,omitempty" yaml:"url,omitempty" description:"host URL, bash://localhost/ or ssh://host:port"`
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty" description:"scy credentials reference for ssh hosts"`
}

// Input represents a rasterization request
type Input struct {
	Source    string            `json:"source" required:"true" description:"vector file location"`
	Dest      string            `json:"dest,omitempty" description:"raster file location, defaults to source with format extension"`
	Format    string            `json:"format,omitempty" description:"raster format passed to the command"`
	DPI       int               `json:"dpi,omitempty" description:"export resolution"`
	Command   string            `json:"command,omitempty" description:"command template"`
	Host      *Host             `json:"host,omitempty" description:"host to execute command on" internal:"true"`
	Env       map[string]string `json:"env,omitempty" description:"environment variables to be set before command runs"`
	TimeoutMs int               `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty" description:"max wait time before timing out command"`
}

// Output represents rasterization result
type Output struct {
	Command string `json:"command,omitempty"`
	Dest    string `json:"dest,omitempty"`
	Stdout  string `json:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// Init applies defaults
func (i *Input) Init() {
	if i.Host == nil {
		i.Host = &Host{}
	}
	if i.Host.URL == "" {
		i.Host.URL = localhostURL
	}
	if i.Format == "" {
		i.Format = DefaultFormat
	}
	if i.DPI == 0 {
		i.DPI = DefaultDPI
	}
	if i.Command == "" {
		i.Command = DefaultCommand
	}
	if i.TimeoutMs == 0 {
		i.TimeoutMs = DefaultTimeoutMs
	}
	if i.Dest == "" {
		i.Dest = DestFor(i.Source, i.Format)
	}
}

// DestFor replaces the source extension with format
func DestFor(source, format string) string {
	ext := path.Ext(url.Path(source))
	return strings.TrimSuffix(source, ext) + "." + strings.ToLower(format)
}

// IsLocal reports whether the host is the local machine
func (h *Host) IsLocal() bool {
	return h == nil || h.URL == "" || url.Host(h.URL) == "localhost"
}
