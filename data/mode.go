package data

import "os"

// FileMode holds the type and permission bits reported for a node.
type FileMode uint32

const (
	ModeDir  FileMode = 1 << 31 // d: mapping, sequence or object
	ModePerm FileMode = 0777

	// Every node is reported with full permissions.
	ModeFile      = ModePerm
	ModeDirectory = ModeDir | ModePerm
)

func (m FileMode) IsDir() bool {
	return m&ModeDir != 0
}

func (m FileMode) Perm() FileMode {
	return m & ModePerm
}

// ToOS converts m into the os.FileMode expected by pkg/sftp.
func (m FileMode) ToOS() os.FileMode {
	mode := os.FileMode(m.Perm())
	if m.IsDir() {
		mode |= os.ModeDir
	}

	return mode
}

// String returns m in ls -l format, e.g. "drwxrwxrwx".
func (m FileMode) String() string {
	return m.ToOS().String()
}
