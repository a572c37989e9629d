package errors

import "errors"

// ErrOptimisticLock means the row changed since it was read.
var ErrOptimisticLock = errors.New("el registro fue modificado por otra operación, actualice e intente de nuevo")
