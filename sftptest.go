// Package sftptest serves Go values over SFTP so code that talks to an sftp
// server can be tested against content the test controls.
//
// Maps and slices become directories, scalars become files, structs become
// objects whose exported fields are their entries, and functions are
// evaluated on every access:
//
//	srv := sftptest.NewServer(t, map[string]any{
//		"incoming": map[string]any{"report.csv": "a,b\n1,2\n"},
//	})
//	client := sftptest.NewClient(t, srv)
package sftptest

import (
	"context"
	"testing"

	"github.com/mwantia/sftptest/log"
	"github.com/mwantia/sftptest/node"
	"github.com/mwantia/sftptest/server"
)

// NewServer converts content into a node graph and serves it until the test
// finishes. Log output is discarded unless a logger option is passed.
func NewServer(tb testing.TB, content any, opts ...server.ServerOption) *server.Server {
	tb.Helper()

	var root node.Node
	if content != nil {
		n, err := node.From(content)
		if err != nil {
			tb.Fatalf("NewServer failed: %v", err)
		}
		root = n
	}

	opts = append([]server.ServerOption{server.WithLogger(log.Discard())}, opts...)
	srv, err := server.New(root, opts...)
	if err != nil {
		tb.Fatalf("NewServer failed: %v", err)
	}

	if err := srv.Start(context.Background()); err != nil {
		tb.Fatalf("NewServer failed: %v", err)
	}
	tb.Cleanup(func() {
		if err := srv.Close(); err != nil {
			tb.Logf("closing server: %v", err)
		}
	})

	return srv
}

// NewClient dials srv and closes the client when the test finishes.
func NewClient(tb testing.TB, srv *server.Server) *server.Client {
	tb.Helper()

	client, err := srv.Dial()
	if err != nil {
		tb.Fatalf("NewClient failed: %v", err)
	}
	tb.Cleanup(func() {
		client.Close()
	})

	return client
}

// Serve replaces the content of srv with content for the duration of fn.
func Serve(tb testing.TB, srv *server.Server, content any, fn func()) {
	tb.Helper()

	root, err := node.From(content)
	if err != nil {
		tb.Fatalf("Serve failed: %v", err)
	}

	if err := srv.ServeContent(root, func() error {
		fn()
		return nil
	}); err != nil {
		tb.Fatalf("Serve failed: %v", err)
	}
}
