package history

import "errors"

// ErrNotFound is returned (wrapped) when a historic record does not exist.
var ErrNotFound = errors.New("historic record not found")
