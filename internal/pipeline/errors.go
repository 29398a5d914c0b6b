package pipeline

import "errors"

// ErrUploadNotFound means the pending upload is unknown, already resolved,
// or owned by a different user.
var ErrUploadNotFound = errors.New("pending upload not found")
