package content

import (
	"github.com/mwantia/sftptest/data"
	"github.com/mwantia/sftptest/node"
)

// Project builds the protocol attributes of n reached at path.
func Project(path string, n node.Node, times data.Times) *data.Attributes {
	mode := data.ModeFile
	if node.IsDir(n) {
		mode = data.ModeDirectory
	}

	return &data.Attributes{
		Path:       path,
		Size:       node.Size(n),
		Mode:       mode,
		UID:        0,
		GID:        0,
		AccessTime: times.Access,
		ModifyTime: times.Modify,
	}
}
