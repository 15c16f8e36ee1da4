package render

import "github.com/pkg/errors"

// Contract violations. Hosts treat these as fatal.
var (
	ErrImageNotResident = errors.New("render: image has no GPU representation")
	ErrUnboundTexture   = errors.New("render: draw references an unbound texture")
)

var (
	ErrNotBound       = errors.New("render: renderer is not bound to a target")
	ErrFormatMismatch = errors.New("render: pass format differs from the bound format")
)

// Graph errors.
var (
	ErrDuplicateNode = errors.New("render: duplicate graph node")
	ErrUnknownNode   = errors.New("render: unknown graph node")
	ErrGraphCycle    = errors.New("render: graph has a cycle")
)
