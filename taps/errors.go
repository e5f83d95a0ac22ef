package taps

import "errors"

var (
	// ErrInvalidDirectory raised if the specified path is not a valid path to a directory
	ErrInvalidDirectory = errors.New("the specified path is not a directory")
	// ErrOutputExists raised if the output file already exists and overwriting is not allowed
	ErrOutputExists = errors.New("the output file already exists")
	// ErrSameFile raised if the input and the output refer to the same file
	ErrSameFile = errors.New("the input and the output cannot be the same")
	// ErrClosedTap raised if the tap is used before it's been opened or after it's been closed
	ErrClosedTap = errors.New("the tap is closed")
)
