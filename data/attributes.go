package data

import "time"

// Attributes is the protocol level view of a node, projected from the node
// itself and its timestamp record.
type Attributes struct {
	// Normalized path of the node
	Path string `json:"path"`

	// Byte length of the textual form, child count for directories
	Size int64 `json:"size"`

	Mode FileMode `json:"mode"`
	UID  uint32   `json:"uid"`
	GID  uint32   `json:"gid"`

	AccessTime time.Time `json:"access_time"`
	ModifyTime time.Time `json:"modify_time"`
}

func (a *Attributes) Name() string {
	return Base(a.Path)
}

func (a *Attributes) IsDir() bool {
	return a.Mode.IsDir()
}

// Times returns the record the attributes were projected from.
func (a *Attributes) Times() Times {
	return Times{Access: a.AccessTime, Modify: a.ModifyTime}
}

// FileInfo adapts a to os.FileInfo.
func (a *Attributes) FileInfo() *FileInfo {
	return &FileInfo{attrs: a}
}
