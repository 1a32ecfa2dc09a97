package shared

import (
	"fmt"
	"sync/atomic"
)

// DivisionID identifies a division for the lifetime of the process.
// Ids are handed out by NextDivisionID and are never reused.
type DivisionID int64

// NoDivision is the zero id; no live division ever carries it.
const NoDivision DivisionID = 0

var divisionSequence atomic.Int64

// NextDivisionID returns the next process-wide division id.
func NextDivisionID() DivisionID {
	return DivisionID(divisionSequence.Add(1))
}

// String returns a string representation of the DivisionID
func (id DivisionID) String() string {
	return fmt.Sprintf("D%d", int64(id))
}

// IsZero reports whether the id is unset
func (id DivisionID) IsZero() bool {
	return id == NoDivision
}

// TeamID groups divisions that share intelligence with each other.
type TeamID int

// String returns a string representation of the TeamID
func (t TeamID) String() string {
	return fmt.Sprintf("team-%d", int(t))
}
