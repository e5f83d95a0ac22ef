package taps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xitonix/xshift/shift"
)

const (
	tempFileExtension = ".xs"
	outputMetadataKey = "output"
	inputMetadataKey  = "input"
	tempMetadataKey   = "temp"
)

// File file
type File struct {
	// Name the name of the file relative to its root directory
	Name string
	// Path file full path
	Path string
}

// Result represents the progress details of a task
type Result struct {
	// Status the status of the operation
	Status shift.Status
	// Error the error details of a failed task
	Error error
	// Input input file
	Input File
	// Output output file
	Output File
	// Report the shifting report of a completed task
	Report *shift.Report
}

// dispatcher maps the input files of a source to the output files of a target
// and creates the work units for them.
//
// The output is written into a hidden temporary file next to the final output.
// It's moved in place only if the task has been completed successfully.
type dispatcher struct {
	source, target string
	sourceIsDir    bool
	overwrite      bool
}

func newDispatcher(source, target string, overwrite bool) (*dispatcher, error) {
	src, err := filepath.Abs(source)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return nil, err
	}

	d := &dispatcher{
		source:      src,
		sourceIsDir: fi.IsDir(),
		overwrite:   overwrite,
	}

	if d.sourceIsDir {
		d.target, err = createDirIfNotExist(target)
		if err != nil {
			return nil, err
		}
		if d.target == d.source {
			return nil, fmt.Errorf("%w: %s", ErrSameFile, src)
		}
		return d, nil
	}

	d.target, err = filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	if tf, err := os.Stat(d.target); err == nil && tf.IsDir() {
		d.target = filepath.Join(d.target, filepath.Base(src))
	}
	if d.target == d.source {
		return nil, fmt.Errorf("%w: %s", ErrSameFile, src)
	}
	return d, nil
}

// locate returns the name of the input and the full path to its output.
// The name is relative to the source directory and always uses forward slashes.
func (d *dispatcher) locate(path string) (string, string, error) {
	if !d.sourceIsDir {
		return filepath.Base(d.source), d.target, nil
	}
	rel, err := filepath.Rel(d.source, path)
	if err != nil {
		return "", "", err
	}
	if rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", "", fmt.Errorf("'%s' is not inside '%s'", path, d.source)
	}
	return filepath.ToSlash(rel), filepath.Join(d.target, rel), nil
}

// skip returns true if the file or directory must not be processed
func (d *dispatcher) skip(path string) bool {
	if !d.sourceIsDir {
		return path != d.source
	}
	if path == d.source {
		return false
	}
	return isHidden(filepath.Base(path)) || isWithin(d.target, path)
}

// workUnit opens the input file and a temporary output file and wraps them in a work unit
func (d *dispatcher) workUnit(path string, callback shift.CallbackFunc) (*shift.WorkUnit, error) {
	name, outPath, err := d.locate(path)
	if err != nil {
		return nil, err
	}
	if outPath == path {
		return nil, fmt.Errorf("%w: %s", ErrSameFile, path)
	}
	if !d.overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, outPath)
		}
	}

	dir, err := createDirIfNotExist(filepath.Dir(outPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create '%s': %w", dir, err)
	}

	input, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", path, err)
	}

	temp, err := os.CreateTemp(dir, "."+filepath.Base(outPath)+".*"+tempFileExtension)
	if err != nil {
		input.Close()
		return nil, fmt.Errorf("failed to create the output of '%s': %w", path, err)
	}

	t := shift.NewTask(name, input, temp)
	w := shift.NewWorkUnit(t, callback)
	w.Metadata[inputMetadataKey] = File{Name: name, Path: path}
	w.Metadata[outputMetadataKey] = File{Name: filepath.Base(outPath), Path: outPath}
	w.Metadata[tempMetadataKey] = temp.Name()
	return w, nil
}

// complete closes the files of a processed work unit and moves the output in place if the task has been completed.
// The temporary output of a failed or cancelled task gets removed.
func (d *dispatcher) complete(w *shift.WorkUnit) *Result {
	input, output, temp := parseMetadata(w.Metadata)
	result := &Result{
		Status: w.Task.Status(),
		Error:  w.Error,
		Input:  input,
		Output: output,
		Report: w.Task.Report(),
	}

	var errs []error
	if result.Error != nil {
		errs = append(errs, result.Error)
	}
	if err := w.Task.CloseInput(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close '%s': %w", input.Name, err))
	}
	if err := w.Task.CloseOutputs(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close '%s': %w", output.Name, err))
	}

	if result.Status == shift.Completed && len(errs) == 0 {
		if err := os.Rename(temp, output.Path); err != nil {
			errs = append(errs, fmt.Errorf("failed to create '%s': %w", output.Path, err))
		}
	}

	if len(errs) > 0 {
		result.Status = shift.Failed
		result.Error = errors.Join(errs...)
	}

	if result.Status != shift.Completed {
		if err := os.Remove(temp); err != nil && !os.IsNotExist(err) {
			result.Error = errors.Join(result.Error, err)
		}
	}
	return result
}

// abort releases the resources of a work unit which has never been sent to the engine
func (d *dispatcher) abort(w *shift.WorkUnit) {
	_, _, temp := parseMetadata(w.Metadata)
	_ = w.Task.CloseInput()
	_ = w.Task.CloseOutputs()
	_ = os.Remove(temp)
}

func parseMetadata(metadata shift.MetadataMap) (File, File, string) {
	input, _ := metadata[inputMetadataKey].(File)
	output, _ := metadata[outputMetadataKey].(File)
	temp, _ := metadata[tempMetadataKey].(string)
	return input, output, temp
}

func createDirIfNotExist(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir, err
	}
	f, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return abs, os.MkdirAll(abs, os.ModePerm)
	}
	if err != nil {
		return abs, err
	}
	if !f.IsDir() {
		return abs, fmt.Errorf("%w: %s", ErrInvalidDirectory, abs)
	}
	return abs, nil
}

func isDirEmpty(name string) bool {
	entries, err := os.ReadDir(name)
	if err != nil {
		return false
	}
	return len(entries) == 0
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isWithin returns true if path is the parent directory itself or anything underneath it
func isWithin(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
