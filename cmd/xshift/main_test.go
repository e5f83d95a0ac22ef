package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xitonix/xshift/shift"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestUsage(t *testing.T) {
	input := filepath.Join(t.TempDir(), "in.txt")
	writeFile(t, input, "2001-02-03")
	output := filepath.Join(t.TempDir(), "out.txt")

	testCases := []struct {
		title        string
		args         []string
		expectedCode int
	}{
		{title: "help", args: []string{"--help"}, expectedCode: exitOK},
		{title: "short_help", args: []string{"-h"}, expectedCode: exitOK},
		{title: "no_arguments", args: nil, expectedCode: exitUsage},
		{title: "too_many_arguments", args: []string{input, output, "extra"}, expectedCode: exitUsage},
		{title: "unknown_flag", args: []string{"--shift", input, output}, expectedCode: exitUsage},
		{title: "zero_max_shift", args: []string{"--max_shift_days", "0", input, output}, expectedCode: exitUsage},
		{title: "negative_max_shift", args: []string{"--max_shift_days=-5", input, output}, expectedCode: exitUsage},
		{title: "not_a_number", args: []string{"--max_shift_days", "ten", input, output}, expectedCode: exitUsage},
		{title: "seed_not_a_number", args: []string{"--seed", "abc", input, output}, expectedCode: exitUsage},
		{title: "seed_out_of_range", args: []string{"--seed", "18446744073709551616", input, output}, expectedCode: exitUsage},
		{title: "unsupported_directive", args: []string{"--date_format", "%Y-%Q", input, output}, expectedCode: exitUsage},
		{title: "unknown_policy", args: []string{"--policy", "sometimes", input, output}, expectedCode: exitUsage},
		{title: "unknown_encoding", args: []string{"--encoding", "klingon", input, output}, expectedCode: exitUsage},
		{title: "zero_workers", args: []string{"--workers", "0", input, output}, expectedCode: exitUsage},
		{title: "missing_config_file", args: []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), input, output}, expectedCode: exitUsage},
		{title: "watch_without_arguments", args: []string{"watch"}, expectedCode: exitUsage},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			code, _, stderr := execute(t, tc.args...)
			require.Equal(t, tc.expectedCode, code, stderr)
			_, err := os.Stat(output)
			require.True(t, os.IsNotExist(err), "no output must be created")
		})
	}
}

func TestHelpListsTheFlags(t *testing.T) {
	code, stdout, _ := execute(t, "--help")
	require.Equal(t, exitOK, code)
	for _, flag := range []string{"--max_shift_days", "--seed", "--date_format", "--encoding", "watch"} {
		require.Contains(t, stdout, flag)
	}
}

func TestNegativeSeed(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	writeFile(t, input, "Born 2000-01-01, died 2050-01-01.")

	negative, unsigned := filepath.Join(dir, "negative.txt"), filepath.Join(dir, "unsigned.txt")
	code, _, stderr := execute(t, "--seed", "-1", input, negative)
	require.Equal(t, exitOK, code, stderr)
	code, _, stderr = execute(t, "--seed=18446744073709551615", input, unsigned)
	require.Equal(t, exitOK, code, stderr)
	require.Equal(t, readFile(t, negative), readFile(t, unsigned), "-1 must seed the same run as its unsigned bit pattern")
}

func TestShiftFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	content := "Born 2000-01-01, died 2050-01-01. Born 2000-01-01."
	writeFile(t, input, content)

	first, second := filepath.Join(dir, "first.txt"), filepath.Join(dir, "second.txt")
	for _, output := range []string{first, second} {
		code, _, stderr := execute(t, "--seed", "42", "--max_shift_days", "10", input, output)
		require.Equal(t, exitOK, code, stderr)
		require.Contains(t, stderr, "SHIFTED")
	}

	shifted := readFile(t, first)
	require.Equal(t, shifted, readFile(t, second), "the same seed must produce the same output")
	require.Equal(t, content, readFile(t, input))

	f := shift.MustParseFormat(shift.DefaultFormat)
	before, after := shift.Matches(content, f), shift.Matches(shifted, f)
	require.Len(t, after, 3)
	require.Equal(t, after[0].Raw, after[2].Raw)
	for i := range before {
		delta := after[i].Value.DaysSince(before[i].Value)
		require.LessOrEqual(t, delta, 10)
		require.GreaterOrEqual(t, delta, -10)
	}
}

func TestShiftDirectoryWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	src, target := filepath.Join(dir, "src"), filepath.Join(dir, "target")
	writeFile(t, filepath.Join(src, "a.csv"), "id,date\n1,03/02/2001\n")
	writeFile(t, filepath.Join(src, "nested", "b.csv"), "id,date\n2,31/12/1999\n")

	cfg := filepath.Join(dir, "xshift.yaml")
	writeFile(t, cfg, "max_shift_days: 5\nseed: 7\ndate_format: \"%d/%m/%Y\"\nscope: run\n")

	code, _, stderr := execute(t, "--config", cfg, "--policy", "run-wide", src, target)
	require.Equal(t, exitOK, code, stderr)

	f := shift.MustParseFormat("%d/%m/%Y")
	a := shift.Matches(readFile(t, filepath.Join(target, "a.csv")), f)
	b := shift.Matches(readFile(t, filepath.Join(target, "nested", "b.csv")), f)
	require.Len(t, a, 1)
	require.Len(t, b, 1)

	deltaA := a[0].Value.DaysSince(shift.Date{Year: 2001, Month: time.February, Day: 3})
	deltaB := b[0].Value.DaysSince(shift.Date{Year: 1999, Month: time.December, Day: 31})
	require.Equal(t, deltaA, deltaB, "a run wide offset in the run scope must be shared by all the files")
	require.LessOrEqual(t, deltaA, 5)
	require.GreaterOrEqual(t, deltaA, -5)
}

func TestExistingOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	output := filepath.Join(dir, "out.txt")
	writeFile(t, input, "on 2001-02-03")

	writeFile(t, output, "keep")
	code, _, _ := execute(t, input, output)
	require.Equal(t, exitFailure, code)
	require.Equal(t, "keep", readFile(t, output))

	code, _, stderr := execute(t, "--force", input, output)
	require.Equal(t, exitOK, code, stderr)
	require.NotEqual(t, "keep", readFile(t, output))
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	code, _, _ := execute(t, filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.txt"))
	require.Equal(t, exitFailure, code)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	src, target := filepath.Join(dir, "src"), filepath.Join(dir, "target")
	writeFile(t, filepath.Join(src, "a.txt"), "2001-02-03")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int)
	var stderr bytes.Buffer
	go func() {
		done <- run(ctx, []string{"watch", "--interval", "20ms", "--delete", "--seed", "1", src, target}, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	}()

	output := filepath.Join(target, "a.txt")
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(src, "a.txt"))
		return os.IsNotExist(err)
	}, 10*time.Second, 20*time.Millisecond)
	cancel()

	select {
	case code := <-done:
		require.Equal(t, exitOK, code, stderr.String())
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for the watcher to stop")
	}
	require.Len(t, shift.Matches(readFile(t, output), shift.MustParseFormat(shift.DefaultFormat)), 1)
}

func TestAskForConfirmation(t *testing.T) {
	testCases := []struct {
		title    string
		input    string
		expected bool
	}{
		{title: "yes", input: "yes\n", expected: true},
		{title: "y_upper_case", input: "Y\n", expected: true},
		{title: "no", input: "no\n", expected: false},
		{title: "ask_again", input: "maybe\ny\n", expected: true},
		{title: "end_of_input", input: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			var out bytes.Buffer
			actual := askForConfirmation(strings.NewReader(tc.input), &out, "Overwrite")
			require.Equal(t, tc.expected, actual)
			require.True(t, strings.HasPrefix(out.String(), "Overwrite [y/n]?: "))
		})
	}
}

func TestIsInteractive(t *testing.T) {
	require.False(t, isInteractive(strings.NewReader("")))
}
