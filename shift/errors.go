package shift

import "errors"

var (
	// ErrInvalidDate raised if a substring has the shape of the date format but is not a calendar date
	ErrInvalidDate = errors.New("invalid calendar date")
	// ErrCalendarOverflow raised if a shifted date cannot be represented by the calendar or by the date format
	ErrCalendarOverflow = errors.New("shifted date out of range")
	// ErrNoShift raised if no shift has been assigned to a date value
	ErrNoShift = errors.New("no shift assigned to the date")
	// ErrFormatMismatch raised if a text does not match the date format
	ErrFormatMismatch = errors.New("text does not match the date format")
	// ErrUnsupportedDirective raised if the date format contains an unknown % directive
	ErrUnsupportedDirective = errors.New("unsupported date format directive")
	// ErrEmptyFormat raised if the date format does not contain any directive
	ErrEmptyFormat = errors.New("date format has no directive")
	// ErrInvalidMaxShift raised if the maximum shift is not a positive number of days
	ErrInvalidMaxShift = errors.New("max shift days must be a positive integer")
	// ErrNilSource raised if no random source has been provided
	ErrNilSource = errors.New("random source cannot be nil")

	// ErrOperationInProgress is the result of any invalid operation on an entity which is already being processed
	ErrOperationInProgress = errors.New("the operation is in progress")
	// ErrNilTap raised if the engine is created without a tap
	ErrNilTap = errors.New("tap cannot be nil")
)
