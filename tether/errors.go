package tether

import "github.com/pkg/errors"

var (
	ErrNilBody         = errors.New("tether: nil body")
	ErrNilHost         = errors.New("tether: nil host")
	ErrSelfTie         = errors.New("tether: body cannot be tied to itself")
	ErrFixtureNotFound = errors.New("tether: fixture not found")
)
