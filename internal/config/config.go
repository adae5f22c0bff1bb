package config

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/volleybench/volley/internal/durations"
)

// Config captures everything a batch run needs. It is assembled by the Loader
// from an optional config file plus command-line flags, then validated once
// before any request is sent.
type Config struct {
	TargetURL string            `mapstructure:"target"`
	Method    string            `mapstructure:"method"`
	Headers   map[string]string `mapstructure:"headers"`
	Body      string            `mapstructure:"body"`
	BodyFile  string            `mapstructure:"body_file"`
	Count     int               `mapstructure:"count"`
	Parallel  int               `mapstructure:"parallel"`
	Wait      string            `mapstructure:"wait"`
	Output    string            `mapstructure:"output"`
	CSVStdout bool              `mapstructure:"csv"`
	Silent    bool              `mapstructure:"silent"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	Insecure  bool              `mapstructure:"insecure"`
	Tracing   TracingConfig     `mapstructure:"tracing"`

	ConfigFile string `mapstructure:"-"`

	// WaitRange is the parsed form of Wait, populated by the Loader.
	WaitRange *durations.Range `mapstructure:"-"`
}

// TracingConfig controls optional OTLP span export for each probe.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
	Propagate   bool    `mapstructure:"propagate"`
}

// Enabled reports whether span export is configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// ValidationError aggregates all configuration issues found in one pass.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	target := strings.TrimSpace(c.TargetURL)
	if target == "" {
		issues = append(issues, "target URL is required (use --help for usage information)")
	} else if issue := validateTargetURL(target); issue != "" {
		issues = append(issues, issue)
	}

	if issue := validateMethod(c.Method); issue != "" {
		issues = append(issues, issue)
	}

	if c.Count < 1 {
		issues = append(issues, "count must be >= 1")
	}
	if c.Parallel < 1 {
		issues = append(issues, "parallel must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, "tracing sample_rate must be between 0.0 and 1.0")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTargetURL(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Sprintf("target URL %q is not valid: %v", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("target URL %q must use http or https", target)
	}
	if u.Host == "" {
		return fmt.Sprintf("target URL %q has no host", target)
	}
	return ""
}

func validateMethod(method string) string {
	m := strings.TrimSpace(method)
	if m == "" {
		return "method cannot be empty"
	}
	for _, r := range m {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') && r != '-' {
			return fmt.Sprintf("method %q is not a valid HTTP method token", method)
		}
	}
	return ""
}

// ParseHeaderLine splits a single "key: value" header argument. Entries with
// no colon, an empty key, or an empty value are rejected before any request
// is sent.
func ParseHeaderLine(entry string) (key, value string, err error) {
	rawKey, rawValue, ok := strings.Cut(entry, ":")
	if !ok {
		return "", "", fmt.Errorf("header %q must be in 'key: value' format", entry)
	}

	key = strings.TrimSpace(rawKey)
	value = strings.TrimSpace(rawValue)
	if key == "" {
		return "", "", fmt.Errorf("header %q has an empty key", entry)
	}
	if value == "" {
		return "", "", fmt.Errorf("header %q has an empty value", entry)
	}
	if strings.ContainsAny(key, "\r\n") || strings.ContainsAny(value, "\r\n") {
		return "", "", fmt.Errorf("header %q contains line breaks", entry)
	}

	return http.CanonicalHeaderKey(key), value, nil
}

// ParseHeaderLines folds repeated header arguments into a canonical-keyed
// map. Later entries for the same key replace earlier ones.
func ParseHeaderLines(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, err := ParseHeaderLine(entry)
		if err != nil {
			return nil, err
		}
		headers[key] = value
	}
	return headers, nil
}
