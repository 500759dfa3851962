package handler

import (
	"io"
	"sync/atomic"

	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/data/errors"
	"github.com/mwantia/sftptest/journal"
)

// Handle is the state of one open file. It holds no data: every read and
// write goes straight to the provider.
type Handle struct {
	id      string
	path    string
	flags   data.AccessMode
	handler *Handler
	closed  atomic.Bool
}

func (hd *Handle) ID() string {
	return hd.id
}

func (hd *Handle) Path() string {
	return hd.path
}

func (hd *Handle) Flags() data.AccessMode {
	return hd.flags
}

// ReadAt implements io.ReaderAt. A short read reports io.EOF.
func (hd *Handle) ReadAt(p []byte, off int64) (int, error) {
	if hd.closed.Load() {
		return 0, errors.Closed(hd.path)
	}

	b, err := hd.handler.Read(hd.path, off, len(p))
	if err != nil {
		return 0, statusError(journal.OpRead, err)
	}

	n := copy(p, b)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt. Handles opened for appending ignore off
// and write at the end of the file.
func (hd *Handle) WriteAt(p []byte, off int64) (int, error) {
	if hd.closed.Load() {
		return 0, errors.Closed(hd.path)
	}

	write := func() error { return hd.handler.Write(hd.path, off, p) }
	if hd.flags.HasAppend() {
		write = func() error { return hd.handler.Append(hd.path, p) }
	}
	if err := write(); err != nil {
		return 0, statusError(journal.OpWrite, err)
	}
	return len(p), nil
}

// Close always succeeds; closing twice is a no-op.
func (hd *Handle) Close() error {
	if !hd.closed.CompareAndSwap(false, true) {
		return nil
	}

	hd.handler.forget(hd.id)
	hd.handler.log.Debug("Close: closed handle %s for %s", hd.id, hd.path)
	hd.handler.record(journal.Entry{Op: journal.OpClose, Path: hd.path}, nil)
	return nil
}
