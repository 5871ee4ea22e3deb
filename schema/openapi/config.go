package openapi

import "strings"

// settings holds everything Generate emits besides the record schemas. The
// document has a single operation whose request body is the Options record.
type settings struct {
	version     string
	info        Info
	path        string
	method      string
	operationID string
	summary     string
	contentType string
	responses   map[string]string
	scopes      []string
}

// Info is the document's info block.
type Info struct {
	Title       string
	Version     string
	Description string
}

func defaults() settings {
	return settings{
		version:     "3.1.0",
		info:        Info{Title: "tmux options", Version: "1.0.0"},
		path:        "/options",
		method:      "put",
		contentType: "application/json",
		responses:   map[string]string{"204": "Options applied"},
	}
}

// GeneratorOption configures Generate.
type GeneratorOption func(*settings)

// WithOpenAPIVersion sets the openapi field. Empty keeps 3.1.0.
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(s *settings) {
		if version != "" {
			s.version = version
		}
	}
}

// InfoOption sets optional info fields.
type InfoOption func(*Info)

func WithInfoDescription(description string) InfoOption {
	return func(info *Info) { info.Description = description }
}

// WithInfo sets the title and version; empty values keep the defaults.
func WithInfo(title, version string, opts ...InfoOption) GeneratorOption {
	return func(s *settings) {
		if title != "" {
			s.info.Title = title
		}
		if version != "" {
			s.info.Version = version
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&s.info)
			}
		}
	}
}

// OperationOption sets optional operation fields.
type OperationOption func(*settings)

func WithOperationSummary(summary string) OperationOption {
	return func(s *settings) { s.summary = strings.TrimSpace(summary) }
}

// WithOperation places the operation. Empty values keep PUT /options; the
// operationId defaults to "method:path".
func WithOperation(path, method, operationID string, opts ...OperationOption) GeneratorOption {
	return func(s *settings) {
		if path != "" {
			s.path = path
		}
		if method != "" {
			s.method = strings.ToLower(method)
		}
		if operationID != "" {
			s.operationID = operationID
		}
		for _, opt := range opts {
			if opt != nil {
				opt(s)
			}
		}
	}
}

func WithContentType(contentType string) GeneratorOption {
	return func(s *settings) {
		if contentType != "" {
			s.contentType = contentType
		}
	}
}

// WithResponse adds or replaces the response for status.
func WithResponse(status, description string) GeneratorOption {
	return func(s *settings) {
		if status != "" {
			s.responses[status] = description
		}
	}
}

// WithScopes limits the document to the named scopes ("server", "session",
// "window", "pane"). Unknown names are rejected by Generate.
func WithScopes(scopes ...string) GeneratorOption {
	return func(s *settings) {
		s.scopes = append([]string(nil), scopes...)
	}
}

func (s settings) operationName() string {
	if s.operationID != "" {
		return s.operationID
	}
	return s.method + ":" + s.path
}
