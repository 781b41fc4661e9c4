package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")
var ErrBadRequest = errors.New("bad request")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *BadRequestError) Unwrap() error {
	return ErrBadRequest
}

func NewBadRequestError(message string) error {
	return &BadRequestError{Message: message}
}

// LoadError is returned when a model identifier does not resolve to a valid
// pipeline directory.
type LoadError struct {
	Model string
	Path  string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load model %q from %s: %v", e.Model, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func NewLoadError(model, path string, err error) error {
	return &LoadError{Model: model, Path: path, Err: err}
}

// ProcessingError is returned when a pipeline fails on the supplied text.
type ProcessingError struct {
	Model string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("model %q failed to process text: %v", e.Model, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func NewProcessingError(model string, err error) error {
	return &ProcessingError{Model: model, Err: err}
}
