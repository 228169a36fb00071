package codebook

import "errors"

var (
	// ErrInvalidConfiguration marks construction attempts that violate the
	// options contract, such as supplying both a corpus and a snapshot.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnknownCode marks decode failures on tokens outside the mapping.
	ErrUnknownCode = errors.New("unknown code")
)
