package data

import "errors"

// Errors returned by the content provider and the protocol handler.
// Callers match them with errors.Is; context is added by wrapping.
var (
	// Path resolution errors
	ErrNotExist       = errors.New("sftptest: node does not exist")
	ErrLazyEvaluation = errors.New("sftptest: lazy node evaluation failed")

	// Mutation errors
	ErrExist         = errors.New("sftptest: node already exists")
	ErrInvalidTarget = errors.New("sftptest: parent cannot hold the node")
	ErrOutOfRange    = errors.New("sftptest: sequence index out of range")
	ErrUnsupported   = errors.New("sftptest: operation unsupported")
	ErrIsDirectory   = errors.New("sftptest: is a directory")
	ErrNotDirectory  = errors.New("sftptest: not a directory")

	// Handle and server errors
	ErrClosed = errors.New("sftptest: already closed")
)
