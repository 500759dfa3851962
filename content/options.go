package content

import (
	"time"

	"github.com/mwantia/sftptest/log"
)

type ProviderOptions struct {
	Logger *log.Logger
	Clock  func() time.Time
}

type ProviderOption func(*ProviderOptions) error

func newDefaultProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Logger: log.Discard(),
		Clock:  time.Now,
	}
}

func WithLogger(logger *log.Logger) ProviderOption {
	return func(opts *ProviderOptions) error {
		if logger != nil {
			opts.Logger = logger
		}
		return nil
	}
}

// WithClock replaces time.Now for every timestamp the provider records.
func WithClock(clock func() time.Time) ProviderOption {
	return func(opts *ProviderOptions) error {
		if clock != nil {
			opts.Clock = clock
		}
		return nil
	}
}
