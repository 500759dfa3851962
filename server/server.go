// Package server exposes a content.Provider over SFTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mwantia/sftptest/content"
	errs "github.com/mwantia/sftptest/data/errors"
	"github.com/mwantia/sftptest/journal"
	"github.com/mwantia/sftptest/log"
	"github.com/mwantia/sftptest/node"
	"golang.org/x/crypto/ssh"
)

type Server struct {
	log      *log.Logger
	options  *ServerOptions
	provider *content.Provider
	journal  journal.Journal
	config   *ssh.ServerConfig

	// closeJournal is set when the journal was created by New.
	closeJournal bool

	mu       sync.Mutex
	listener net.Listener
	conns    map[string]net.Conn
	wg       sync.WaitGroup

	bound        chan struct{}
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// New prepares a server for root. Nothing is bound until Listen, Start or
// Serve is called.
func New(root node.Node, opts ...ServerOption) (*Server, error) {
	options := newDefaultServerOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("sftptest", options.LogLevel, options.LogFile, options.NoTerminalLog)
	}

	signer, err := hostKey(options)
	if err != nil {
		return nil, err
	}

	provider, err := content.NewProvider(root, content.WithLogger(logger.Named("content")))
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:      logger,
		options:  options,
		provider: provider,
		journal:  options.Journal,
		config:   newServerConfig(signer, logger.Named("auth")),
		conns:    make(map[string]net.Conn),
		bound:    make(chan struct{}),
		shutdown: make(chan struct{}),
	}

	if s.journal == nil {
		s.journal = journal.NewMemoryJournal()
		s.closeJournal = true
	}

	return s, nil
}

func hostKey(options *ServerOptions) (ssh.Signer, error) {
	switch {
	case options.HostKey != nil:
		return options.HostKey, nil
	case options.HostKeyFile != "":
		return LoadHostKey(options.HostKeyFile)
	default:
		return GenerateHostKey()
	}
}

// Listen binds the configured address. Calling it again is a no-op.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	select {
	case <-s.shutdown:
		return errs.Closed("server")
	default:
	}

	address := net.JoinHostPort(s.options.Host, strconv.Itoa(s.options.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s.listener = listener
	close(s.bound)

	s.log.Info("Listen: serving sftp on %s", listener.Addr())
	return nil
}

// Start binds the listener and accepts connections in the background until
// ctx is done or Close is called.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.serve(ctx)
	return nil
}

// Serve accepts connections until ctx is done or Close is called. It binds
// the listener first when needed and returns nil on shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.wg.Add(1)
	return s.serve(ctx)
}

func (s *Server) serve(ctx context.Context) error {
	defer s.wg.Done()

	go func() {
		select {
		case <-ctx.Done():
			s.log.Debug("Serve: shutdown signal received: %v", ctx.Err())
			s.initiateShutdown()
		case <-s.shutdown:
		}
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
			}

			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.log.Debug("Serve: error accepting connection: %v", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}

		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)

			s.handleConn(conn)
		}()
	}
}

// track registers conn unless shutdown has started.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.shutdown:
		return false
	default:
	}

	s.conns[conn.RemoteAddr().String()] = conn
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, conn.RemoteAddr().String())
}

// WaitForBind blocks until the listener is bound or timeout elapses.
func (s *Server) WaitForBind(timeout time.Duration) bool {
	select {
	case <-s.bound:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Host() string {
	return s.options.Host
}

// Port returns the bound port, which differs from the configured one when
// that was 0.
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.options.Port
}

func (s *Server) User() string {
	return s.options.User
}

func (s *Server) Password() string {
	return s.options.Password
}

// URL returns sftp://user:pw@host:port/ for the bound address.
func (s *Server) URL() string {
	u := url.URL{
		Scheme: "sftp",
		User:   url.UserPassword(s.options.User, s.options.Password),
		Host:   net.JoinHostPort(s.Host(), strconv.Itoa(s.Port())),
		Path:   "/",
	}
	return u.String()
}

func (s *Server) Provider() *content.Provider {
	return s.provider
}

func (s *Server) Journal() journal.Journal {
	return s.journal
}

// ServeContent serves root while fn runs and restores the previous content
// afterwards, also when fn fails or panics.
func (s *Server) ServeContent(root node.Node, fn func() error) error {
	return s.provider.Serve(root, fn)
}

// ReplaceContent serves root until the returned function is called.
func (s *Server) ReplaceContent(root node.Node) (restore func()) {
	return s.provider.Swap(root)
}

// Close stops accepting connections, drops the live ones and waits for
// their goroutines to finish.
func (s *Server) Close() error {
	var result errs.Errors

	result.Add(s.initiateShutdown())
	s.wg.Wait()

	if s.closeJournal {
		result.Add(s.journal.Close())
	}
	return result.Errors()
}

func (s *Server) initiateShutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		close(s.shutdown)
		if s.listener != nil {
			err = s.listener.Close()
		}
		for addr, conn := range s.conns {
			s.log.Debug("Close: dropping connection from %s", addr)
			conn.Close()
		}
		s.log.Info("Close: server stopped")
	})
	return err
}
