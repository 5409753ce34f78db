package sigs

import (
	"github.com/zcombinatorio/squads/errors"
)

var (
	// ErrInvalidSequence means the signature was built against a stale or
	// future sequence number.
	ErrInvalidSequence = errors.Register(120, "invalid sequence")
)
