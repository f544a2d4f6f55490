package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("ErrorBase", 19999, "must be between 20000 and 20999")

		assert.Contains(t, err.Error(), "erddl: config error")
		assert.Contains(t, err.Error(), "ErrorBase")
		assert.Contains(t, err.Error(), "19999")
		assert.Contains(t, err.Error(), "must be between")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Dialect", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Dialect")
		assert.Contains(t, err.Error(), "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("Dialect", "db2", "unsupported")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		assert.True(t, IsConfigError(NewConfigError("Dialect", nil, "missing")))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}
