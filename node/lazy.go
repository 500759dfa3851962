package node

import (
	"fmt"

	"github.com/mwantia/sftptest/data"
)

// maxLazyDepth bounds chains of lazy nodes returning lazy nodes.
const maxLazyDepth = 32

// Lazy is a node computed on every resolution.
type Lazy func() (Node, error)

func (l Lazy) Kind() Kind {
	return KindLazy
}

// Evaluate resolves n until it is no longer lazy. Failures, including
// panics inside the computation, are reported as data.ErrLazyEvaluation.
func Evaluate(n Node) (Node, error) {
	for depth := 0; ; depth++ {
		lazy, ok := n.(Lazy)
		if !ok {
			return n, nil
		}
		if depth == maxLazyDepth {
			return nil, fmt.Errorf("%w: chain exceeds %d evaluations", data.ErrLazyEvaluation, maxLazyDepth)
		}

		next, err := evaluateOnce(lazy)
		if err != nil {
			return nil, err
		}
		n = next
	}
}

func evaluateOnce(l Lazy) (result Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: panic: %v", data.ErrLazyEvaluation, r)
		}
	}()

	if l == nil {
		return nil, fmt.Errorf("%w: nil computation", data.ErrLazyEvaluation)
	}

	result, err = l()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", data.ErrLazyEvaluation, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: computation returned no node", data.ErrLazyEvaluation)
	}
	return result, nil
}
