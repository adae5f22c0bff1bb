package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "volley [flags] URL",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Request template flags
	flags.StringP("method", "X", "GET", "HTTP method to use")
	flags.StringArrayP("header", "H", nil, "Request header in 'key: value' form (repeatable)")
	flags.StringP("body", "b", "", "Inline request body payload")
	flags.StringP("body-file", "f", "", "Path to file containing the request body; overrides --body")

	// Batch control flags
	flags.IntP("count", "n", 1, "Total number of requests to send")
	flags.IntP("parallel", "p", 1, "Maximum number of requests in flight at once")
	flags.StringP("wait", "w", "", "Duration awaited before each request; a 'low..high' range draws a random value per request (e.g. 10ms..20ms)")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")
	flags.Bool("insecure", false, "Skip TLS certificate verification")

	// Output flags
	flags.StringP("output", "o", "", "CSV file to write per-request results to; appended if it already exists")
	flags.Bool("csv", false, "Print per-request CSV rows to stdout instead of the summary")
	flags.Bool("silent", false, "Suppress the text summary")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("trace-endpoint", "", "OTLP endpoint to export one span per request to")
	flags.String("trace-protocol", "grpc", "OTLP transport: 'grpc' or 'http'")
	flags.String("trace-service-name", "", "Service name reported on exported spans")
	flags.Float64("trace-sample-rate", 1.0, "Fraction of spans to sample (0.0 to 1.0)")
	flags.Bool("trace-insecure", false, "Skip TLS for the OTLP exporter connection")
	flags.Bool("trace-propagate", false, "Inject W3C trace context headers into outgoing requests")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("method") {
		val, err := fs.GetString("method")
		if err != nil {
			return err
		}
		cfg.Method = val
	}
	if fs.Changed("body") {
		val, err := fs.GetString("body")
		if err != nil {
			return err
		}
		cfg.Body = val
	}
	if fs.Changed("body-file") {
		val, err := fs.GetString("body-file")
		if err != nil {
			return err
		}
		cfg.BodyFile = val
	}
	if fs.Changed("count") {
		val, err := fs.GetInt("count")
		if err != nil {
			return err
		}
		cfg.Count = val
	}
	if fs.Changed("parallel") {
		val, err := fs.GetInt("parallel")
		if err != nil {
			return err
		}
		cfg.Parallel = val
	}
	if fs.Changed("wait") {
		val, err := fs.GetString("wait")
		if err != nil {
			return err
		}
		cfg.Wait = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("insecure") {
		val, err := fs.GetBool("insecure")
		if err != nil {
			return err
		}
		cfg.Insecure = val
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = val
	}
	if fs.Changed("csv") {
		val, err := fs.GetBool("csv")
		if err != nil {
			return err
		}
		cfg.CSVStdout = val
	}
	if fs.Changed("silent") {
		val, err := fs.GetBool("silent")
		if err != nil {
			return err
		}
		cfg.Silent = val
	}

	entries, err := fs.GetStringArray("header")
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		headers, err := ParseHeaderLines(entries)
		if err != nil {
			return err
		}
		if cfg.Headers == nil {
			cfg.Headers = map[string]string{}
		}
		for key, value := range headers {
			cfg.Headers[key] = value
		}
	}

	if fs.Changed("trace-endpoint") {
		val, err := fs.GetString("trace-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = val
	}
	if fs.Changed("trace-protocol") {
		val, err := fs.GetString("trace-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = val
	}
	if fs.Changed("trace-service-name") {
		val, err := fs.GetString("trace-service-name")
		if err != nil {
			return err
		}
		cfg.Tracing.ServiceName = val
	}
	if fs.Changed("trace-sample-rate") {
		val, err := fs.GetFloat64("trace-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("trace-insecure") {
		val, err := fs.GetBool("trace-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("trace-propagate") {
		val, err := fs.GetBool("trace-propagate")
		if err != nil {
			return err
		}
		cfg.Tracing.Propagate = val
	}

	return nil
}
