package dataset

import "errors"

// ErrShape is the cause of every dataset validation failure.
var ErrShape = errors.New("dataset shape mismatch")
