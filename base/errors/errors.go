// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides small helpers for logging and handling
// errors, wrapping the standard library errors package.
package errors

import (
	"errors"
	"log/slog"
	"runtime"
	"strconv"
)

// New returns an error with the given text (standard [errors.New]).
func New(text string) error {
	return errors.New(text)
}

// Join wraps the standard [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is wraps the standard [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps the standard [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Log logs the given error if it is non-nil, with the file and line
// of the caller, and returns it for further handling.
func Log(err error) error {
	if err == nil {
		return nil
	}
	slog.Error(err.Error() + " | " + caller(2))
	return err
}

// Log1 is a version of [Log] for functions returning a value and an
// error, passing the value through.
func Log1[T any](v T, err error) T {
	Log(err)
	return v
}

// Must panics if the given error is non-nil. It is for errors that
// indicate a programming bug, not a runtime condition.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Ignore1 ignores the error from a function returning a value and an
// error, returning just the value.
func Ignore1[T any](v T, err error) T {
	return v
}

// caller returns the file:line of the function depth levels up the
// call stack.
func caller(depth int) string {
	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		return "???"
	}
	return file + ":" + strconv.Itoa(line)
}
