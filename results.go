package squads

import (
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult captures any non-error payload from a pre-flight validation
// of a transaction.
type CheckResult struct {
	// Data is a machine-parseable return value, like the key of an
	// entity that would be created.
	Data []byte

	// Log is human readable data.
	Log string

	// GasAllocated is an estimate of the processing cost of the
	// transaction, used by the transport layer to prioritize.
	GasAllocated int64
}

// DeliverResult captures any non-error payload from an applied state
// transition.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the key of the
	// entity that was created.
	Data []byte

	// Log is human readable data.
	Log string

	// Tags enable indexing of committed transitions by attribute.
	Tags []common.KVPair

	// GasUsed is the actual processing cost of the transaction.
	GasUsed int64
}

// Pair is a convenience constructor for a result tag.
func Pair(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}
