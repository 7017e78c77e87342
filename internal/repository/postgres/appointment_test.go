package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	serErr := &pq.Error{Code: pq.ErrorCode(serializationFailure)}
	assert.True(t, isSerializationFailure(serErr))
	assert.True(t, isSerializationFailure(fmt.Errorf("select conflicts: %w", serErr)))

	assert.False(t, isSerializationFailure(&pq.Error{Code: pq.ErrorCode(uniqueViolation)}))
	assert.False(t, isSerializationFailure(errors.New("connection reset")))
	assert.False(t, isSerializationFailure(nil))
}
