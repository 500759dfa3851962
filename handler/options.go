package handler

import (
	"github.com/mwantia/sftptest/journal"
	"github.com/mwantia/sftptest/log"
)

type HandlerOptions struct {
	Logger  *log.Logger
	Journal journal.Journal
	Session string
}

type HandlerOption func(*HandlerOptions) error

func newDefaultHandlerOptions() *HandlerOptions {
	return &HandlerOptions{
		Logger:  log.Discard(),
		Journal: journal.Discard(),
	}
}

func WithLogger(logger *log.Logger) HandlerOption {
	return func(opts *HandlerOptions) error {
		if logger != nil {
			opts.Logger = logger
		}
		return nil
	}
}

// WithJournal records every handled verb into j.
func WithJournal(j journal.Journal) HandlerOption {
	return func(opts *HandlerOptions) error {
		if j != nil {
			opts.Journal = j
		}
		return nil
	}
}

// WithSession tags journal entries with the id of the connection.
func WithSession(session string) HandlerOption {
	return func(opts *HandlerOptions) error {
		opts.Session = session
		return nil
	}
}
