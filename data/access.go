package data

import "strings"

// AccessMode carries the flags a client passed when opening a path.
type AccessMode int

const (
	AccessModeRead   AccessMode = 1 << iota // open for reading
	AccessModeWrite                         // open for writing
	AccessModeAppend                        // append to the file
	AccessModeCreate                        // create if missing
	AccessModeTrunc                         // truncate on open
	AccessModeExcl                          // fail if the path exists (with create)
)

func (m AccessMode) CanRead() bool {
	return m&AccessModeRead != 0
}

func (m AccessMode) CanWrite() bool {
	return m&AccessModeWrite != 0
}

func (m AccessMode) HasAppend() bool {
	return m&AccessModeAppend != 0
}

func (m AccessMode) HasCreate() bool {
	return m&AccessModeCreate != 0
}

// HasTrunc only applies to handles opened for writing.
func (m AccessMode) HasTrunc() bool {
	return m&AccessModeTrunc != 0 && m.CanWrite()
}

func (m AccessMode) HasExcl() bool {
	return m&AccessModeExcl != 0 && m.HasCreate()
}

// String renders m as a compact flag list, e.g. "rw+create".
func (m AccessMode) String() string {
	var b strings.Builder
	if m.CanRead() {
		b.WriteByte('r')
	}
	if m.CanWrite() {
		b.WriteByte('w')
	}

	for _, f := range []struct {
		mode AccessMode
		name string
	}{
		{AccessModeAppend, "append"},
		{AccessModeCreate, "create"},
		{AccessModeTrunc, "trunc"},
		{AccessModeExcl, "excl"},
	} {
		if m&f.mode != 0 {
			b.WriteString("+" + f.name)
		}
	}

	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
