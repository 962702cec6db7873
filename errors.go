package rubberband

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrPushOutFailed = errors.New("rubberband: body still overlaps a solid after push out")
	ErrDuplicateBody = errors.New("rubberband: duplicate body id")
	ErrUnknownBody   = errors.New("rubberband: unknown body id")
	ErrNoShape       = errors.New("rubberband: body has no shape")
)

// StepError collects the tick failures of one Step, by body id.
// The other bodies of the world still advanced.
type StepError struct {
	Failures map[int]error
}

func (e *StepError) add(bodyID int, err error) {
	if e.Failures == nil {
		e.Failures = make(map[int]error)
	}
	e.Failures[bodyID] = err
}

// BodyIDs returns the failing body ids in ascending order
func (e *StepError) BodyIDs() []int {
	ids := make([]int, 0, len(e.Failures))
	for id := range e.Failures {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (e *StepError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, id := range e.BodyIDs() {
		parts = append(parts, fmt.Sprintf("body %d: %v", id, e.Failures[id]))
	}
	return fmt.Sprintf("rubberband: %d tick(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As
func (e *StepError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, id := range e.BodyIDs() {
		errs = append(errs, e.Failures[id])
	}
	return errs
}
