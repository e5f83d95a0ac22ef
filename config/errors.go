package config

import (
	"errors"

	"github.com/xitonix/xshift/shift"
)

var (
	// ErrInvalidConfig raised if a configuration value is not valid
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidMaxShift raised if the maximum shift is not a positive number of days
	ErrInvalidMaxShift = shift.ErrInvalidMaxShift
	// ErrUnknownField raised if the config file contains a field which is not recognised
	ErrUnknownField = errors.New("unknown config field")
)
