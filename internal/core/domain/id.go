package domain

import (
	"github.com/google/uuid"
)

// ConnID identifies a live transport connection. Minted per accepted socket,
// never reused; logical participant ids point at exactly one ConnID.
type ConnID string

func NewConnID() ConnID {
	return ConnID(uuid.New().String())
}

func (id ConnID) String() string {
	return string(id)
}
