package types

import "errors"

// ErrConfiguration marks failures caused by the configuration itself: a
// required key has no resolvable value for a context, an engine group has
// no universal fallback, or a size/size-unit pairing is violated. These
// are always fatal to the calling operation.
var ErrConfiguration = errors.New("configuration error")

// ErrValidation marks malformed inputs: an inverted range bound, an
// unknown enum value, or an unrecognized ship type / size unit
// combination. Raised at construction or resolution time.
var ErrValidation = errors.New("validation error")
