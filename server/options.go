package server

import (
	"github.com/mwantia/sftptest/journal"
	"github.com/mwantia/sftptest/log"
	"golang.org/x/crypto/ssh"
)

type ServerOptions struct {
	Host string
	Port int

	HostKey     ssh.Signer
	HostKeyFile string

	// Reported in URL; authentication accepts any credentials.
	User     string
	Password string

	Logger        *log.Logger
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool

	Journal journal.Journal
}

type ServerOption func(*ServerOptions) error

func newDefaultServerOptions() *ServerOptions {
	return &ServerOptions{
		Host:     "127.0.0.1",
		Port:     0,
		User:     "user",
		Password: "pw",
		LogLevel: log.Info,
	}
}

// WithAddress binds host:port; port 0 picks a free port.
func WithAddress(host string, port int) ServerOption {
	return func(opts *ServerOptions) error {
		opts.Host = host
		opts.Port = port
		return nil
	}
}

func WithHostKey(signer ssh.Signer) ServerOption {
	return func(opts *ServerOptions) error {
		opts.HostKey = signer
		return nil
	}
}

// WithHostKeyFile loads the host key from a PEM encoded private key.
func WithHostKeyFile(path string) ServerOption {
	return func(opts *ServerOptions) error {
		opts.HostKeyFile = path
		return nil
	}
}

func WithCredentials(user, password string) ServerOption {
	return func(opts *ServerOptions) error {
		opts.User = user
		opts.Password = password
		return nil
	}
}

func WithLogger(logger *log.Logger) ServerOption {
	return func(opts *ServerOptions) error {
		opts.Logger = logger
		return nil
	}
}

func WithLogLevel(logLevel log.LogLevel) ServerOption {
	return func(opts *ServerOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithLogFile(logFile string) ServerOption {
	return func(opts *ServerOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

func WithoutTerminalLog() ServerOption {
	return func(opts *ServerOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

// WithJournal records handled verbs into j. The caller keeps ownership.
func WithJournal(j journal.Journal) ServerOption {
	return func(opts *ServerOptions) error {
		opts.Journal = j
		return nil
	}
}
