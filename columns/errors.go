package columns

import (
	"errors"
	"fmt"

	"colselect-go/schema"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidRange    = errors.New("invalid index range")
	ErrKindMismatch    = errors.New("column kind mismatch")
	ErrNotFound        = errors.New("column not found")
	ErrNotSingle       = errors.New("selection contains more than one column")
	ErrNegativeCount   = errors.New("requested column count is less than zero")
	ErrNilScope        = errors.New("nil resolution scope")
	ErrScopeNotGroup   = func(kind schema.Kind) error {
		return fmt.Errorf("resolution scope must be a ColumnGroup, got a %s", kind)
	}
)

// IndexOutOfRangeError is returned by positional selection when an index, or
// either end of an inclusive range, falls outside [0, Size).
type IndexOutOfRangeError struct {
	First   int
	Last    int
	IsRange bool
	Size    int
}

func (e *IndexOutOfRangeError) Error() string {
	if e.IsRange {
		return fmt.Sprintf("range %d..%d is out of bounds for column set of size %d", e.First, e.Last, e.Size)
	}
	return fmt.Sprintf("index %d is out of bounds for column set of size %d", e.First, e.Size)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

type InvalidRangeError struct {
	First int
	Last  int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("range %d..%d is invalid: first index is more than one past last index", e.First, e.Last)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }

// KindMismatchError is raised by the typed accessors only; generic resolution
// never checks kinds.
type KindMismatchError struct {
	Expected schema.Kind
	Actual   schema.Kind
	Path     schema.ColumnPath
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("column at %q is not a %s, but a %s", e.Path.String(), e.Expected, e.Actual)
}

func (e *KindMismatchError) Is(target error) bool { return target == ErrKindMismatch }

// NotFoundError reports a single column selection that resolved to nothing.
type NotFoundError struct {
	Selector string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Selector)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type NotSingleError struct {
	Selector string
	Count    int
}

func (e *NotSingleError) Error() string {
	return fmt.Sprintf("%s matched %d columns, expected at most one", e.Selector, e.Count)
}

func (e *NotSingleError) Is(target error) bool { return target == ErrNotSingle }
