// Package handler translates SFTP requests into operations on a
// content.Provider.
package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/sftptest/content"
	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/data/errors"
	"github.com/mwantia/sftptest/journal"
	"github.com/mwantia/sftptest/log"
	"github.com/mwantia/sftptest/node"
)

// Handler serves one SFTP session. It keeps the handles opened during the
// session and discards them when the session ends.
type Handler struct {
	mu       sync.Mutex
	log      *log.Logger
	journal  journal.Journal
	session  string
	provider *content.Provider
	handles  map[string]*Handle
}

func New(provider *content.Provider, opts ...HandlerOption) (*Handler, error) {
	options := newDefaultHandlerOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	return &Handler{
		log:      options.Logger,
		journal:  options.Journal,
		session:  options.Session,
		provider: provider,
		handles:  make(map[string]*Handle),
	}, nil
}

// Open returns a handle for path. Creating opens materialize an empty file
// when the path is absent, truncating opens empty an existing file. Any
// other absent path still yields a handle: the failure surfaces on the
// first read or write.
func (h *Handler) Open(path string, flags data.AccessMode) (*Handle, error) {
	path = data.Normalize(path)

	err := h.provider.Update(func(tx *content.Tx) error {
		n, err := tx.Lookup(path)
		if err != nil {
			if flags.HasCreate() {
				return tx.Put(path, node.String(""))
			}
			return nil
		}

		if flags.HasExcl() {
			return errors.Exist(path)
		}
		if flags.CanWrite() && node.IsDir(n) {
			return errors.IsDirectory(path)
		}
		if flags.HasTrunc() {
			return tx.Put(path, node.String(""))
		}
		return nil
	})
	if err != nil {
		h.record(journal.Entry{Op: journal.OpOpen, Path: path}, err)
		return nil, err
	}

	handle := &Handle{
		id:      uuid.Must(uuid.NewV7()).String(),
		path:    path,
		flags:   flags,
		handler: h,
	}

	h.mu.Lock()
	h.handles[handle.id] = handle
	h.mu.Unlock()

	h.log.Debug("Open: opened handle %s for %s (%s)", handle.id, path, flags)
	h.record(journal.Entry{Op: journal.OpOpen, Path: path}, nil)
	return handle, nil
}

// Read returns the content of path within [offset, offset+length). Reading
// past the end yields an empty slice.
func (h *Handler) Read(path string, offset int64, length int) ([]byte, error) {
	path = data.Normalize(path)

	n, err := h.provider.Get(path)
	if err == nil && node.IsDir(n) {
		err = errors.IsDirectory(path)
	}
	if err != nil {
		h.record(journal.Entry{Op: journal.OpRead, Path: path, Offset: offset, Length: length}, err)
		return nil, err
	}

	h.record(journal.Entry{Op: journal.OpRead, Path: path, Offset: offset, Length: length}, nil)

	text, _ := node.Text(n)
	if offset < 0 || offset >= int64(len(text)) {
		return []byte{}, nil
	}

	end := offset + int64(length)
	if end > int64(len(text)) {
		end = int64(len(text))
	}
	return []byte(text[offset:end]), nil
}

// maxWriteOffset bounds the NUL padding a single write may request.
const maxWriteOffset = 64 << 20

// Write splices p into the file at path starting at offset, padding with
// NUL bytes when offset lies past the end. Absent paths can only be
// written from offset 0.
func (h *Handler) Write(path string, offset int64, p []byte) error {
	return h.write(path, offset, false, p)
}

// Append adds p to the end of the file at path, creating it when absent.
func (h *Handler) Append(path string, p []byte) error {
	return h.write(path, 0, true, p)
}

func (h *Handler) write(path string, offset int64, appending bool, p []byte) error {
	path = data.Normalize(path)

	err := h.provider.Update(func(tx *content.Tx) error {
		if offset < 0 || offset > maxWriteOffset {
			return errors.Unsupported(fmt.Sprintf("write at offset %d", offset), path)
		}

		n, err := tx.Lookup(path)
		if err != nil {
			if !errors.Is(err, data.ErrNotExist) {
				return err
			}
			if offset != 0 {
				return errors.Unsupported(fmt.Sprintf("write at offset %d to absent file", offset), path)
			}
			return tx.Put(path, node.String(string(p)))
		}

		text, ok := node.Text(n)
		if !ok {
			return errors.Unsupported("write to directory", path)
		}
		if appending {
			offset = int64(len(text))
		}
		return tx.Put(path, node.String(splice(text, offset, p)))
	})

	h.log.Debug("Write: writing %d bytes to %s at offset %d (append=%t)", len(p), path, offset, appending)
	h.record(journal.Entry{Op: journal.OpWrite, Path: path, Offset: offset, Length: len(p)}, err)
	return err
}

func splice(text string, offset int64, p []byte) string {
	buf := []byte(text)
	if pad := offset - int64(len(buf)); pad > 0 {
		buf = append(buf, make([]byte, pad)...)
	}

	end := offset + int64(len(p))
	if end > int64(len(buf)) {
		buf = append(buf[:offset], p...)
	} else {
		copy(buf[offset:end], p)
	}
	return string(buf)
}

func (h *Handler) Remove(path string) error {
	path = data.Normalize(path)

	err := h.provider.Remove(path)
	h.record(journal.Entry{Op: journal.OpRemove, Path: path}, err)
	return err
}

// Rmdir behaves like Remove; directories need not be empty.
func (h *Handler) Rmdir(path string) error {
	path = data.Normalize(path)

	err := h.provider.Remove(path)
	h.record(journal.Entry{Op: journal.OpRmdir, Path: path}, err)
	return err
}

// Mkdir stores an empty mapping at path, which must not exist.
func (h *Handler) Mkdir(path string) error {
	path = data.Normalize(path)

	err := h.provider.Update(func(tx *content.Tx) error {
		if _, err := tx.Lookup(path); err == nil {
			return errors.Exist(path)
		}
		return tx.Put(path, node.NewMapping())
	})
	h.record(journal.Entry{Op: journal.OpMkdir, Path: path}, err)
	return err
}

// Rename moves the node at oldPath to newPath, replacing whatever is there.
// The moved node keeps its timestamp records. The steps run under one lock,
// but a failing removal leaves the node at both paths.
func (h *Handler) Rename(oldPath, newPath string) error {
	oldPath, newPath = data.Normalize(oldPath), data.Normalize(newPath)

	err := h.provider.Update(func(tx *content.Tx) error {
		n, err := tx.Lookup(oldPath)
		if err != nil {
			return err
		}
		if oldPath == newPath {
			return nil
		}
		if data.HasPrefix(newPath, oldPath) {
			return &targetError{errors.InvalidTarget(newPath, "cannot move a node below itself")}
		}

		times, err := tx.Times(oldPath)
		if err != nil {
			return err
		}
		if err := tx.PutWithTimes(newPath, n, times); err != nil {
			return &targetError{err}
		}
		tx.CopyTimes(oldPath, newPath)

		return tx.Remove(oldPath)
	})

	h.log.Debug("Rename: moving %s to %s", oldPath, newPath)
	h.record(journal.Entry{Op: journal.OpRename, Path: oldPath, Target: newPath}, err)
	return err
}

func (h *Handler) Stat(path string) (*data.Attributes, error) {
	path = data.Normalize(path)

	attrs, err := h.provider.Stat(path)
	h.record(journal.Entry{Op: journal.OpStat, Path: path}, err)
	return attrs, err
}

// Setstat accepts and ignores attribute changes on existing nodes.
func (h *Handler) Setstat(path string) error {
	path = data.Normalize(path)

	_, err := h.provider.Lookup(path)
	h.record(journal.Entry{Op: journal.OpSetstat, Path: path}, err)
	return err
}

func (h *Handler) ReadDir(path string) ([]*data.Attributes, error) {
	path = data.Normalize(path)

	attrs, err := h.provider.ReadDir(path)
	h.record(journal.Entry{Op: journal.OpList, Path: path}, err)
	return attrs, err
}

// Handles returns the number of handles still open.
func (h *Handler) Handles() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.handles)
}

// CloseAll discards every handle still open, e.g. when the connection drops.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	handles := make([]*Handle, 0, len(h.handles))
	for _, handle := range h.handles {
		handles = append(handles, handle)
	}
	h.mu.Unlock()

	for _, handle := range handles {
		handle.Close()
	}
}

func (h *Handler) forget(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.handles, id)
}

func (h *Handler) record(entry journal.Entry, err error) {
	entry.Session = h.session
	entry.Time = time.Now()
	if err != nil {
		entry.Error = err.Error()
		h.log.Debug("%s: %s failed: %v", entry.Op, entry.Path, err)
	}

	if rerr := h.journal.Record(context.Background(), entry); rerr != nil {
		h.log.Warn("Journal: failed to record %s: %v", entry, rerr)
	}
}

// targetError marks rename failures caused by the destination.
type targetError struct {
	err error
}

func (e *targetError) Error() string {
	return "rename target: " + e.err.Error()
}

func (e *targetError) Unwrap() error {
	return e.err
}
