package shift

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/xitonix/xshift/logging"
	"github.com/xitonix/xshift/textenc"
)

// Engine is the type that shifts the dates of the work units it receives from a tap.
type Engine struct {
	tap     Tap
	workers uint16
	opts    Options
	format  *Format
	seed    uint64
	table   *ShiftTable
	log     logging.Logger

	wg     *sync.WaitGroup
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once

	//to prevent multiple go routines to run Start and Stop at the same time
	mux       sync.Mutex
	isRunning bool
}

// NewEngine creates a new instance of a date shifting engine.
//
// "workers" is the number of inputs processed in parallel. With RunScope the engine
// always uses a single worker, so that the shared offsets are drawn in a reproducible order.
func NewEngine(workers uint16, opts Options, tap Tap, logger logging.Logger) (*Engine, error) {
	if tap == nil {
		return nil, ErrNilTap
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	var seed uint64
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		seed = RandomSeed()
	}

	if workers == 0 {
		workers = 1
	}

	e := &Engine{
		tap:     tap,
		workers: workers,
		opts:    opts,
		format:  format,
		seed:    seed,
		log:     logger,
		wg:      &sync.WaitGroup{},
	}

	if opts.Scope == RunScope {
		e.workers = 1
		e.table, err = NewShiftTable(opts.MaxShiftDays, opts.Policy, NewSource(seed, ""))
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Seed returns the seed the random sources are derived from.
// Running the engine again with the same seed over the same inputs reproduces the output.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// Start opens the tap and starts processing the work units coming through the tap's pipe.
// Once you are finished with the engine, you need to call the Stop function.
// It's safe to call this method on a running engine
func (e *Engine) Start() {
	e.mux.Lock()
	defer e.mux.Unlock()

	if e.isRunning {
		return
	}

	e.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		e.cancel = cancel

		pipe := e.tap.Pipe()
		for i := 0; uint16(i) < e.workers; i++ {
			e.wg.Add(1)
			go e.readFromThePipe(ctx, pipe)
		}
		if !e.tap.IsOpen() {
			e.tap.Open()
		}
		e.isRunning = true
		e.log.Debugf("engine started with %d worker(s), %s policy, %s scope", e.workers, e.opts.Policy, e.opts.Scope)
	})
}

// Stop closes the tap, cancels the tasks in progress and releases the resources.
// It's safe to call this function on a stopped engine
func (e *Engine) Stop() {
	e.mux.Lock()
	defer e.mux.Unlock()

	if !e.isRunning {
		return
	}
	e.stopOnce.Do(func() {
		if e.tap.IsOpen() {
			e.tap.Close()
		}
		e.cancel()
		e.wg.Wait()
		e.isRunning = false
		e.log.Debug("engine stopped")
	})
}

// IsON returns true if the engine is running
func (e *Engine) IsON() bool {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.isRunning
}

func (e *Engine) readFromThePipe(ctx context.Context, pipe WorkList) {
	defer e.wg.Done()
	for {
		select {
		case wu, more := <-pipe:
			if !more {
				return
			}
			if wu == nil || wu.Task == nil {
				continue
			}
			e.process(ctx, wu)
			wu.callBack()
		case <-ctx.Done():
			return
		}
	}
}

func (e *Engine) process(ctx context.Context, wu *WorkUnit) {
	task := wu.Task
	task.markAsInProgress()
	status, report, codec, err := e.shiftTask(ctx, task)
	task.markAsComplete(status, report, codec)
	wu.Error = err

	switch status {
	case Completed:
		for _, w := range report.Warnings {
			e.log.Warnf("%s: %s", task.name, w)
		}
		e.log.Debugf("%s: %d date(s) shifted, %d distinct, %d warning(s), encoding %s",
			task.name, report.Shifted, report.Distinct, len(report.Warnings), codec)
	case Failed:
		e.log.Errorf("%s: %s", task.name, err)
	case Cancelled:
		e.log.Infof("%s: cancelled", task.name)
	}
}

func (e *Engine) shiftTask(ctx context.Context, task *Task) (Status, *Report, string, error) {
	if ctx.Err() != nil {
		return Cancelled, nil, "", nil
	}
	if task.input == nil {
		return Failed, nil, "", fmt.Errorf("%s: no input", task.name)
	}

	raw, err := io.ReadAll(task.input)
	if err != nil {
		return Failed, nil, "", fmt.Errorf("reading %s: %w", task.name, err)
	}

	encoding := task.encoding
	if encoding == "" {
		encoding = e.opts.Encoding
	}
	codec, err := textenc.Resolve(raw, encoding)
	if err != nil {
		return Failed, nil, "", fmt.Errorf("%s: %w", task.name, err)
	}
	text, err := codec.Decode(raw)
	if err != nil {
		return Failed, nil, codec.Name, fmt.Errorf("%s: %w", task.name, err)
	}

	shifter, err := e.shifterFor(task.name)
	if err != nil {
		return Failed, nil, codec.Name, err
	}
	report, err := shifter.Shift(text)
	if err != nil {
		return Failed, nil, codec.Name, fmt.Errorf("%s: %w", task.name, err)
	}

	out, err := codec.Encode(report.Text)
	if err != nil {
		return Failed, report, codec.Name, fmt.Errorf("%s: %w", task.name, err)
	}

	if ctx.Err() != nil {
		return Cancelled, report, codec.Name, nil
	}

	if len(task.outputs) > 0 {
		if _, err := io.MultiWriter(task.outputs...).Write(out); err != nil {
			return Failed, report, codec.Name, fmt.Errorf("writing %s: %w", task.name, err)
		}
	}
	return Completed, report, codec.Name, nil
}

func (e *Engine) shifterFor(name string) (*Shifter, error) {
	if e.table != nil {
		return NewSharedShifter(e.format, e.table)
	}
	return NewShifter(e.format, e.opts.MaxShiftDays, e.opts.Policy, NewSource(e.seed, name))
}
