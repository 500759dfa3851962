package handler

import (
	"io"
	"os"

	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/journal"
	"github.com/pkg/sftp"
)

// Handlers wires h into a pkg/sftp request server.
func (h *Handler) Handlers() sftp.Handlers {
	return sftp.Handlers{
		FileGet:  h,
		FilePut:  h,
		FileCmd:  h,
		FileList: h,
	}
}

func (h *Handler) Fileread(r *sftp.Request) (io.ReaderAt, error) {
	handle, err := h.open(r)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

func (h *Handler) Filewrite(r *sftp.Request) (io.WriterAt, error) {
	handle, err := h.open(r)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// OpenFile serves opens requesting both read and write access.
func (h *Handler) OpenFile(r *sftp.Request) (sftp.WriterAtReaderAt, error) {
	handle, err := h.open(r)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

func (h *Handler) open(r *sftp.Request) (*Handle, error) {
	handle, err := h.Open(r.Filepath, accessMode(r.Pflags()))
	if err != nil {
		return nil, statusError(journal.OpOpen, err)
	}
	return handle, nil
}

func (h *Handler) Filecmd(r *sftp.Request) error {
	switch r.Method {
	case "Setstat":
		return statusError(journal.OpSetstat, h.Setstat(r.Filepath))
	case "Rename", "PosixRename":
		return statusError(journal.OpRename, h.Rename(r.Filepath, r.Target))
	case "Rmdir":
		return statusError(journal.OpRmdir, h.Rmdir(r.Filepath))
	case "Mkdir":
		return statusError(journal.OpMkdir, h.Mkdir(r.Filepath))
	case "Remove":
		return statusError(journal.OpRemove, h.Remove(r.Filepath))
	default:
		h.log.Debug("Filecmd: unsupported method %s for %s", r.Method, r.Filepath)
		return sftp.ErrSSHFxOpUnsupported
	}
}

func (h *Handler) Filelist(r *sftp.Request) (sftp.ListerAt, error) {
	switch r.Method {
	case "List":
		attrs, err := h.ReadDir(r.Filepath)
		if err != nil {
			return nil, statusError(journal.OpList, err)
		}
		return newLister(attrs...), nil
	case "Stat", "Lstat":
		attrs, err := h.Stat(r.Filepath)
		if err != nil {
			return nil, statusError(journal.OpStat, err)
		}
		return newLister(attrs), nil
	default:
		h.log.Debug("Filelist: unsupported method %s for %s", r.Method, r.Filepath)
		return nil, sftp.ErrSSHFxOpUnsupported
	}
}

func accessMode(flags sftp.FileOpenFlags) data.AccessMode {
	var mode data.AccessMode
	if flags.Read {
		mode |= data.AccessModeRead
	}
	if flags.Write {
		mode |= data.AccessModeWrite
	}
	if flags.Append {
		mode |= data.AccessModeAppend
	}
	if flags.Creat {
		mode |= data.AccessModeCreate
	}
	if flags.Trunc {
		mode |= data.AccessModeTrunc
	}
	if flags.Excl {
		mode |= data.AccessModeExcl
	}
	return mode
}

// lister pages attributes out to the request server.
type lister []os.FileInfo

func newLister(attrs ...*data.Attributes) lister {
	l := make(lister, len(attrs))
	for i, a := range attrs {
		l[i] = a.FileInfo()
	}
	return l
}

func (l lister) ListAt(dst []os.FileInfo, offset int64) (int, error) {
	if offset >= int64(len(l)) {
		return 0, io.EOF
	}

	n := copy(dst, l[offset:])
	if n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}
