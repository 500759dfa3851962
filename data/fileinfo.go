package data

import (
	"os"
	"time"
)

// FileInfo exposes Attributes as os.FileInfo. It also implements the
// Uid/Gid extension pkg/sftp inspects when encoding attributes.
type FileInfo struct {
	attrs *Attributes
}

func (fi *FileInfo) Name() string {
	return fi.attrs.Name()
}

func (fi *FileInfo) Size() int64 {
	return fi.attrs.Size
}

func (fi *FileInfo) Mode() os.FileMode {
	return fi.attrs.Mode.ToOS()
}

func (fi *FileInfo) ModTime() time.Time {
	return fi.attrs.ModifyTime
}

func (fi *FileInfo) IsDir() bool {
	return fi.attrs.IsDir()
}

func (fi *FileInfo) Sys() any {
	return fi.attrs
}

func (fi *FileInfo) Uid() uint32 {
	return fi.attrs.UID
}

func (fi *FileInfo) Gid() uint32 {
	return fi.attrs.GID
}

// Attributes returns the underlying projection.
func (fi *FileInfo) Attributes() *Attributes {
	return fi.attrs
}
