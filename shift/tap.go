package shift

// WorkList the channel through which a tap sends its work units to the engine
type WorkList chan *WorkUnit

// Tap is the interface for the types responsible to send work units to an Engine
type Tap interface {
	// Open opens the tap and starts pushing work units into its pipe.
	// The engine will automatically open the tap, so there is no need for you to explicitly call this method.
	// NOTE: The implementation of this function SHOULD NOT be blocking.
	Open()
	// Close closes the tap and its pipe.
	// The engine will automatically close the tap, so there is no need for you to explicitly call this method.
	// NOTE: Make sure the implementation of this method blocks until all the tap's internal resources are released
	Close()
	// IsOpen returns true if the tap is open
	IsOpen() bool
	// Pipe returns the channel from which the engine receives the work units
	Pipe() WorkList
}
