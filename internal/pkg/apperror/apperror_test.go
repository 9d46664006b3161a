package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithFieldKeepsIdentity(t *testing.T) {
	sentinel := New(http.StatusConflict, KindSlotConflict, "time slot already booked")

	withField := sentinel.WithField("hour")
	wrapped := fmt.Errorf("create: %w", withField)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Equal(t, "hour", withField.Field)
	assert.Equal(t, "", sentinel.Field, "sentinel must not be mutated")
	assert.Equal(t, "time slot already booked (hour)", withField.Error())
}
