package poses

import "errors"

var (
	ErrEmptyPath       = errors.New("pose file path is empty")
	ErrFileNotFound    = errors.New("pose file not found")
	ErrParse           = errors.New("malformed pose document")
	ErrAxisValueFormat = errors.New("axis value is not a number")
)
