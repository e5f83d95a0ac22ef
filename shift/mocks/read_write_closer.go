// Package mocks contains the io test doubles used by the shift package tests
package mocks

import (
	"errors"
	"io"
)

// ErrMocked the error returned by the failing mocks
var ErrMocked = errors.New("mocked failure")

type WriteCloser struct {
	IsClosed bool
}

func (o *WriteCloser) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func (o *WriteCloser) Close() error {
	o.IsClosed = true
	return nil
}

type ReadCloser struct {
	IsClosed bool
}

func (o *ReadCloser) Read(p []byte) (n int, err error) {
	return 0, io.EOF
}

func (o *ReadCloser) Close() error {
	o.IsClosed = true
	return nil
}

// FailingReader fails every read
type FailingReader struct{}

func (FailingReader) Read(p []byte) (n int, err error) {
	return 0, ErrMocked
}

// FailingWriter fails every write
type FailingWriter struct{}

func (FailingWriter) Write(p []byte) (n int, err error) {
	return 0, ErrMocked
}
