package stamp

// Template is a text template holding the placeholder token.
type Template struct {
	Side    string `json:"side" yaml:"side"`
	URL     string `json:"url" yaml:"url"`
	Content []byte `json:"-" yaml:"-"`
}

// Asset represents a written output file
type Asset struct {
	Side        string `json:"side"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}
