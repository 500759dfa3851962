package errors

import "github.com/mwantia/sftptest/data"

func NotExist(path string) error {
	return newError(data.ErrNotExist, "'%s'", path)
}

func Exist(path string) error {
	return newError(data.ErrExist, "'%s'", path)
}

func IsDirectory(path string) error {
	return newError(data.ErrIsDirectory, "'%s'", path)
}

func NotDirectory(path string) error {
	return newError(data.ErrNotDirectory, "'%s'", path)
}

func InvalidTarget(path string, reason string) error {
	return newError(data.ErrInvalidTarget, "'%s': %s", path, reason)
}

func OutOfRange(path string, index, length int) error {
	return newError(data.ErrOutOfRange, "'%s': index %d, length %d", path, index, length)
}

func Unsupported(op string, path string) error {
	return newError(data.ErrUnsupported, "%s on '%s'", op, path)
}

// LazyEvaluation keeps cause in the chain when it is an error.
func LazyEvaluation(path string, cause any) error {
	if err, ok := cause.(error); ok {
		return newError(data.ErrLazyEvaluation, "'%s': %w", path, err)
	}
	return newError(data.ErrLazyEvaluation, "'%s': %v", path, cause)
}

func Closed(what string) error {
	return newError(data.ErrClosed, "%s", what)
}
