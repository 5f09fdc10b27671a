package placement

import (
	"fmt"

	"github.com/matzehuels/tessera/pkg/errors"
)

// InvariantViolation carries the state needed to diagnose a broken engine
// invariant. It is always returned wrapped in an *errors.Error with code
// errors.ErrCodeInvariant and is never recoverable.
type InvariantViolation struct {
	Reason  string
	Column  int
	Pending []int
	Grid    Snapshot
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("%s (column %d, pending %v)\n%s", v.Reason, v.Column, v.Pending, v.Grid)
}

func newViolation(reason string, column int, g *Grid) error {
	v := &InvariantViolation{
		Reason:  reason,
		Column:  column,
		Pending: g.PendingCounts(),
		Grid:    g.Snapshot(),
	}
	return errors.Wrap(errors.ErrCodeInvariant, v, "%s", reason)
}
