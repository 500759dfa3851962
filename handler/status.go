package handler

import (
	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/data/errors"
	"github.com/mwantia/sftptest/journal"
	"github.com/pkg/sftp"
)

// statusError maps a provider error onto the SFTP status the client sees.
// Some verbs answer with a fixed status regardless of the cause.
func statusError(op journal.Op, err error) error {
	if err == nil {
		return nil
	}

	switch op {
	case journal.OpRemove:
		return sftp.ErrSSHFxNoSuchFile
	case journal.OpRmdir, journal.OpMkdir:
		return sftp.ErrSSHFxFailure
	case journal.OpRename:
		var target *targetError
		if errors.As(err, &target) {
			return sftp.ErrSSHFxFailure
		}
	case journal.OpWrite:
		if errors.Is(err, data.ErrInvalidTarget) || errors.Is(err, data.ErrOutOfRange) {
			return sftp.ErrSSHFxNoSuchFile
		}
	}

	switch {
	case errors.Is(err, data.ErrNotExist),
		errors.Is(err, data.ErrLazyEvaluation),
		errors.Is(err, data.ErrNotDirectory):
		return sftp.ErrSSHFxNoSuchFile
	case errors.Is(err, data.ErrUnsupported):
		return sftp.ErrSSHFxOpUnsupported
	default:
		return sftp.ErrSSHFxFailure
	}
}
