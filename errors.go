package guibridge

import "github.com/pkg/errors"

// Usage errors. Begin, End and Extract return them; accessors panic with them.
var (
	ErrSessionLive     = errors.New("guibridge: a frame session is already live")
	ErrSessionMismatch = errors.New("guibridge: session is not the live session")
	ErrNoSession       = errors.New("guibridge: no live frame session")
	ErrSessionEnded    = errors.New("guibridge: frame session has ended")
)

// ErrWeakImageRef is the panic value of Register when handed a reference
// that does not keep its image alive.
var ErrWeakImageRef = errors.New("guibridge: image reference is not strong")

// ErrInvalidConfig wraps every Config.Validate failure.
var ErrInvalidConfig = errors.New("guibridge: invalid config")
