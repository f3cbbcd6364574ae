package forecast

import "errors"

// ErrBlobNotFound is returned by blob repositories for missing keys.
var ErrBlobNotFound = errors.New("blob not found")
