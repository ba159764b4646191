package cell

import "errors"

// ErrUnknownExtender is returned by Extend when a spec names an extender that
// was never registered.
var ErrUnknownExtender = errors.New("cell: unknown extender")

// ErrInvalidExtenderOption is returned when an extender rejects its option or
// cannot be applied to the target cell.
var ErrInvalidExtenderOption = errors.New("cell: invalid extender option")

// ErrNilExtenderResult is returned when an extender returns no cell.
var ErrNilExtenderResult = errors.New("cell: extender returned nil")
