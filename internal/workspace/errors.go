package workspace

import "errors"

var (
	ErrBaseDirRequired = errors.New("workspace: base directory is required")
	ErrURLRequired     = errors.New("workspace: repository url is required")
	ErrCloneFailed     = errors.New("workspace: clone failed")
	ErrCheckoutFailed  = errors.New("workspace: checkout failed")
)
