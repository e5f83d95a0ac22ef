// Package assert includes some helper methods used for testing
package assert

import (
	"errors"
	"testing"
)

// Errors checks the validity of the expected error and returns false if the assertion failed
// or if the test case is expected to fail (there is nothing left to check)
func Errors(t *testing.T, expectError bool, err error, fields Fields) bool {
	t.Helper()

	if expectError && err == nil {
		t.Errorf("Expected an error, but received 'nil' (%s)", fields.String())
	}

	if !expectError && err != nil {
		t.Errorf("No error was expected, but received '%v' (%s)", err, fields.String())
	}

	return !expectError
}

// ErrorIs checks that err matches the expected error using errors.Is.
// A nil expected error means no error must have been returned.
// It returns true if the caller should carry on with the rest of the checks.
func ErrorIs(t *testing.T, expected, err error, fields Fields) bool {
	t.Helper()

	if expected == nil {
		if err != nil {
			t.Errorf("No error was expected, but received '%v' (%s)", err, fields.String())
			return false
		}
		return true
	}

	if !errors.Is(err, expected) {
		t.Errorf("Expected '%v' as error, but received '%v' (%s)", expected, err, fields.String())
	}
	return false
}
