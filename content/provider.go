// Package content owns the served object graph and its timestamp records.
package content

import (
	"sync"
	"time"

	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/log"
	"github.com/mwantia/sftptest/node"
)

// Provider serializes every access to the root and the tracker behind a
// single lock. Reads take it too, since reading content updates access
// times.
type Provider struct {
	mu    sync.Mutex
	log   *log.Logger
	clock func() time.Time
	root  node.Node
	times *Tracker
}

// Entry is one (parent, leaf) pair of a recursive listing.
type Entry struct {
	Parent string
	Leaf   string
}

func (e Entry) Path() string {
	return data.Join(e.Parent, e.Leaf)
}

// NewProvider attaches root, an empty mapping when nil, and seeds a
// timestamp record for every reachable node.
func NewProvider(root node.Node, opts ...ProviderOption) (*Provider, error) {
	options := newDefaultProviderOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	p := &Provider{
		log:   options.Logger,
		clock: options.Clock,
	}
	p.attachUnsafe(root)

	return p, nil
}

// Root returns the graph currently being served.
func (p *Provider) Root() node.Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.root
}

// Swap serves root until the returned restore function is called, which
// brings back the previous root together with its timestamp records.
// Calling restore more than once has no further effect.
func (p *Provider) Swap(root node.Node) (restore func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	previousRoot, previousTimes := p.root, p.times
	p.attachUnsafe(root)
	p.log.Debug("Swap: serving replacement root with %d records", p.times.Len())

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()

			p.root, p.times = previousRoot, previousTimes
			p.log.Debug("Swap: restored previous root with %d records", p.times.Len())
		})
	}
}

// Serve runs fn while root is served and restores the previous root on
// every exit path, panics included.
func (p *Provider) Serve(root node.Node, fn func() error) error {
	restore := p.Swap(root)
	defer restore()

	return fn()
}

// Update runs fn with exclusive access to the graph. Compound operations
// such as rename use it to keep their steps under one lock.
func (p *Provider) Update(fn func(tx *Tx) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return fn(&Tx{p: p})
}

func (p *Provider) Lookup(path string) (node.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lookupUnsafe(data.Normalize(path))
}

// Exists reports whether path resolves.
func (p *Provider) Exists(path string) bool {
	_, err := p.Lookup(path)
	return err == nil
}

// Get resolves path and touches its access time.
func (p *Provider) Get(path string) (node.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.getUnsafe(data.Normalize(path))
}

// Put stores n at path, see PutWithTimes.
func (p *Provider) Put(path string, n node.Node) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.putUnsafe(data.Normalize(path), n, nil)
}

// PutWithTimes stores n at path. Non-zero fields of times replace the
// recorded access and modify times; a zero Modify means now.
func (p *Provider) PutWithTimes(path string, n node.Node, times data.Times) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.putUnsafe(data.Normalize(path), n, &times)
}

func (p *Provider) Remove(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.removeUnsafe(data.Normalize(path))
}

// List returns the child names of the directory at path.
func (p *Provider) List(path string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.listUnsafe(data.Normalize(path))
}

// Walk lists path and everything below it, starting with Split(path).
func (p *Provider) Walk(path string) ([]Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.walkUnsafe(data.Normalize(path))
}

func (p *Provider) IsDir(path string) (bool, error) {
	n, err := p.Lookup(path)
	if err != nil {
		return false, err
	}
	return node.IsDir(n), nil
}

func (p *Provider) Size(path string) (int64, error) {
	n, err := p.Lookup(path)
	if err != nil {
		return 0, err
	}
	return node.Size(n), nil
}

// Times returns the record of path, creating it for existing nodes.
func (p *Provider) Times(path string) (data.Times, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	path = data.Normalize(path)
	if _, err := p.lookupUnsafe(path); err != nil {
		return data.Times{}, err
	}
	return p.timesUnsafe(path), nil
}

func (p *Provider) Stat(path string) (*data.Attributes, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.statUnsafe(data.Normalize(path))
}

// ReadDir projects the attributes of every child of path.
func (p *Provider) ReadDir(path string) ([]*data.Attributes, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.readDirUnsafe(data.Normalize(path))
}

func (p *Provider) attachUnsafe(root node.Node) {
	if root == nil {
		root = node.NewMapping()
	}

	p.root = root
	p.times = NewTracker()

	now := p.clock()
	var paths []string
	node.Walk(root, func(parent, leaf string, n node.Node) bool {
		paths = append(paths, data.Join(parent, leaf))
		return n != nil
	})
	p.times.Seed(paths, now)
}
