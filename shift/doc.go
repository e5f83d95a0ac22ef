// Package shift implements the core functionality of the date shifter.
//
// The building blocks are Format, which compiles a strptime style date format, Scan, which
// lazily finds the dates of a text, AssignShifts, which draws one random offset per distinct date,
// and Apply, which rewrites the text. Shifter chains all of them for a single text.
//
//	shifter, err := shift.NewShifter(shift.MustParseFormat("%Y-%m-%d"), 365, shift.PerValue, shift.NewSource(seed, "notes.txt"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := shifter.Shift(text)
//
// To process many inputs, use an Engine. Every engine is connected to a pipe of work units
// from which it receives the requests. In order to flow the work units into the associated pipe,
// you need to implement a Tap and connect it to the engine by passing it to shift.NewEngine(...).
//
//	engine, err := shift.NewEngine(workers, shift.DefaultOptions(), tap, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.Start()
//
//	signals := make(chan os.Signal, 1)
//	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
//	<-signals
//
//	engine.Stop()
package shift
