package orm

import (
	"github.com/zcombinatorio/squads"
)

// Model is implemented by any entity that can be stored in a ModelBucket.
type Model interface {
	squads.Persistent

	// Validate returns an error if the model cannot be persisted in its
	// current form.
	Validate() error
}
