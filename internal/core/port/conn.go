package port

import "github.com/Wyydra/switchboard/internal/core/domain"

type Conn interface {
	ID() domain.ConnID
	Send(evt domain.Event) error
	Close() error
}
