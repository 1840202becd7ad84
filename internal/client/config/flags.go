package config

import (
	"flag"
	"io"
	"time"

	"github.com/Rajgupta764/legal-saarthi/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string          API base URL
//	-i int             online check interval in seconds
//	-t duration        default request timeout
//	-s string          storage file, or "memory"
//	-l string          log level
//	-log-backend string slog or zap
//	-metrics string    address serving /metrics
//
// Only these flags are read; anything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-t", "-s", "-l", "-log-backend", "-metrics"})

	fs := flag.NewFlagSet("legal-saarthi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "session storage file or \"memory\"")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend (slog, zap)")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address to serve Prometheus metrics on")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
