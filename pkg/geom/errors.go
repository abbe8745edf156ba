package geom

import "errors"

var (
	// ErrIndexOutOfRange is returned by CoordinateList inserts when the index
	// lies outside [0, Len()].
	ErrIndexOutOfRange = errors.New("geom: index out of range")

	// ErrInvalidOrdinate is returned when a textual ordinate is not a number.
	ErrInvalidOrdinate = errors.New("geom: invalid ordinate")
)
