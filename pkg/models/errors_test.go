package models

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsUnwrap(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewNotFoundError("model unknown"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "lookup: model unknown not found")

	assert.ErrorIs(t, NewBadRequestError("text missing"), ErrBadRequest)

	loadErr := NewLoadError("id_x", "/models/id_x", fs.ErrNotExist)
	var le *LoadError
	assert.True(t, errors.As(loadErr, &le))
	assert.Equal(t, "id_x", le.Model)
	assert.ErrorIs(t, loadErr, fs.ErrNotExist)

	procErr := NewProcessingError("id_x", errors.New("boom"))
	var pe *ProcessingError
	assert.True(t, errors.As(procErr, &pe))
	assert.Contains(t, procErr.Error(), "boom")
}
