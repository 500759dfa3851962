package content

import (
	"time"

	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/node"
)

// Tx exposes the provider operations to a function run by Update while the
// lock is held. It must not be used after that function returns.
type Tx struct {
	p *Provider
}

func (tx *Tx) Now() time.Time {
	return tx.p.clock()
}

func (tx *Tx) Lookup(path string) (node.Node, error) {
	return tx.p.lookupUnsafe(data.Normalize(path))
}

func (tx *Tx) Get(path string) (node.Node, error) {
	return tx.p.getUnsafe(data.Normalize(path))
}

func (tx *Tx) Put(path string, n node.Node) error {
	return tx.p.putUnsafe(data.Normalize(path), n, nil)
}

func (tx *Tx) PutWithTimes(path string, n node.Node, times data.Times) error {
	return tx.p.putUnsafe(data.Normalize(path), n, &times)
}

func (tx *Tx) Remove(path string) error {
	return tx.p.removeUnsafe(data.Normalize(path))
}

// Times returns the record of path, creating it for existing nodes.
func (tx *Tx) Times(path string) (data.Times, error) {
	path = data.Normalize(path)
	if _, err := tx.p.lookupUnsafe(path); err != nil {
		return data.Times{}, err
	}
	return tx.p.timesUnsafe(path), nil
}

// CopyTimes copies the records below src onto the matching paths below dst.
func (tx *Tx) CopyTimes(src, dst string) {
	tx.p.times.Copy(data.Normalize(src), data.Normalize(dst))
}

func (tx *Tx) Stat(path string) (*data.Attributes, error) {
	return tx.p.statUnsafe(data.Normalize(path))
}
