package data

import "time"

// Times is the timestamp record kept for every addressable node.
type Times struct {
	Access time.Time `json:"access"`
	Modify time.Time `json:"modify"`
}

// NewTimes returns a record with both fields set to at.
func NewTimes(at time.Time) Times {
	return Times{Access: at, Modify: at}
}

// IsZero reports whether neither field has been set.
func (t Times) IsZero() bool {
	return t.Access.IsZero() && t.Modify.IsZero()
}
