package chain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID = errors.New("course ID cannot be empty")

	// ErrNotInitialized is returned by mutations that need a head pointer
	// while records exist but no chain has been built yet.
	ErrNotInitialized = errors.New("course chain not initialized, run a rebuild from the legacy index")

	// ErrHeadConflict is returned when the head changed between read and write.
	ErrHeadConflict = errors.New("chain head was modified concurrently")

	// ErrChainIncomplete is returned when an operation needs every course to be
	// reachable from the head.
	ErrChainIncomplete = errors.New("course chain is incomplete, run a repair")
)

// PartialWriteError reports a mutation that failed after at least one of its
// single-row writes was applied. The chain may be structurally inconsistent
// until a repair runs.
type PartialWriteError struct {
	Op      string // insert, move, delete, rebuild
	Applied int    // writes applied before the failure
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s failed after %d applied writes (chain may need repair): %v", e.Op, e.Applied, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// IsPartialWrite reports whether err carries a PartialWriteError
func IsPartialWrite(err error) bool {
	var pwe *PartialWriteError
	return errors.As(err, &pwe)
}
