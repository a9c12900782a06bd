package core

import (
	"errors"
)

var (
	ErrNoPoseFile      = errors.New("no pose file found in the assets folder")
	ErrNotInitialized  = errors.New("engine not initialized")
	ErrPoseNotFound    = errors.New("pose not found")
	ErrAlreadyShutdown = errors.New("engine already shut down")
	ErrUnknown         = errors.New("unknown")
)
