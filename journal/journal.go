// Package journal records the filesystem verbs a server handled so tests
// can assert on what a client did, not only on the resulting content.
package journal

import (
	"context"
	"fmt"
	"time"
)

// Op names a handled verb.
type Op string

const (
	OpOpen    Op = "open"
	OpRead    Op = "read"
	OpWrite   Op = "write"
	OpClose   Op = "close"
	OpList    Op = "list"
	OpStat    Op = "stat"
	OpSetstat Op = "setstat"
	OpRemove  Op = "remove"
	OpRmdir   Op = "rmdir"
	OpMkdir   Op = "mkdir"
	OpRename  Op = "rename"
)

type Entry struct {
	ID      int64     `json:"id"`
	Time    time.Time `json:"time"`
	Session string    `json:"session"`
	Op      Op        `json:"op"`
	Path    string    `json:"path"`
	Target  string    `json:"target,omitempty"`
	Offset  int64     `json:"offset,omitempty"`
	Length  int       `json:"length,omitempty"`
	Error   string    `json:"error,omitempty"`
}

func (e Entry) Failed() bool {
	return e.Error != ""
}

func (e Entry) String() string {
	s := fmt.Sprintf("%s %s", e.Op, e.Path)
	if e.Target != "" {
		s += " -> " + e.Target
	}
	if e.Failed() {
		s += ": " + e.Error
	}
	return s
}

// Filter selects entries; empty fields match everything.
type Filter struct {
	Session string
	Op      Op
	Path    string
}

func (f Filter) Match(e Entry) bool {
	return (f.Session == "" || f.Session == e.Session) &&
		(f.Op == "" || f.Op == e.Op) &&
		(f.Path == "" || f.Path == e.Path)
}

// Journal stores entries in the order they were recorded.
type Journal interface {
	GetName() string

	Record(ctx context.Context, entry Entry) error
	Entries(ctx context.Context, filter Filter) ([]Entry, error)
	Reset(ctx context.Context) error

	Close() error
}

// New returns the journal registered for typ: "memory", "sqlite" (path
// defaults to ":memory:") or "none".
func New(typ string, path string) (Journal, error) {
	switch typ {
	case "", "memory":
		return NewMemoryJournal(), nil
	case "sqlite":
		if path == "" {
			path = ":memory:"
		}
		return NewSQLiteJournal(path)
	case "none":
		return Discard(), nil
	default:
		return nil, fmt.Errorf("unknown journal type '%s'", typ)
	}
}
