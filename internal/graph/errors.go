package graph

import "errors"

// Error kinds shared by all packages in this module. Wrap with
// fmt.Errorf("%w: ...", kind) and match with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrInvariant       = errors.New("invariant violation")
)
