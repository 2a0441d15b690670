package rom

import (
	"errors"
	"fmt"
)

// ErrNoCard is returned when an identifier resolves to the "no card" sentinel.
var ErrNoCard = errors.New("rom: no card")

// ParseError reports a table or struct that extends past the image at load time.
type ParseError struct {
	Table  string
	Index  int
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("rom: parse %s[%d] at 0x%X: %s", e.Table, e.Index, e.Offset, e.Reason)
	}
	return fmt.Sprintf("rom: parse %s[%d] at 0x%X: beyond image", e.Table, e.Index, e.Offset)
}

// AllocationError reports that no free run or window could hold a record.
type AllocationError struct {
	Kind   RecordKind
	Index  int
	Field  string
	Needed int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("rom: no free space for %s of %s %d (need %d bytes)", e.Field, e.Kind, e.Index, e.Needed)
}

// BoundsError reports a computed write that would pass the end of the image.
type BoundsError struct {
	Kind   RecordKind
	Index  int
	Offset int
	Length int
	Size   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("rom: write of %d bytes at 0x%X for %s %d exceeds image size 0x%X",
		e.Length, e.Offset, e.Kind, e.Index, e.Size)
}

// EncodingError reports a value that does not fit its fixed width or format.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("rom: cannot encode %s value %q", e.Field, e.Value)
}

// SaveError wraps the first failure of a save. The committed image is
// untouched when a SaveError is returned.
type SaveError struct {
	Ref RecordRef
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("rom: save %s: %v", e.Ref, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
