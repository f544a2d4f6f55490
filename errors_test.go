package erddl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/erddl"
)

func TestUnknownNodeKindError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := erddl.NewUnknownNodeKindError("n1", "Blob")
		assert.Equal(t, `erddl: node "n1" has unknown kind "Blob"`, err.Error())
	})

	t.Run("IsUnknownNodeKind", func(t *testing.T) {
		err := erddl.NewUnknownNodeKindError("n1", "Blob")
		assert.True(t, errors.Is(err, erddl.ErrUnknownNodeKind))
		assert.True(t, erddl.IsUnknownNodeKind(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, erddl.IsUnknownNodeKind(erddl.ErrUnknownNodeKind))
		assert.False(t, erddl.IsUnknownNodeKind(errors.New("other error")))
		assert.False(t, erddl.IsUnknownNodeKind(nil))
	})
}

func TestMissingKeyError(t *testing.T) {
	t.Run("Error with phase", func(t *testing.T) {
		err := erddl.NewMissingKeyError("primary keys", "EMPLOYEE", "")
		assert.Equal(t, "erddl: missing key for EMPLOYEE during primary keys", err.Error())
	})

	t.Run("Error with role", func(t *testing.T) {
		err := erddl.NewMissingKeyError("", "DEPENDENT", "partial key")
		assert.Equal(t, "erddl: missing partial key for DEPENDENT", err.Error())
	})

	t.Run("IsMissingKey", func(t *testing.T) {
		err := erddl.NewMissingKeyError("weak keys", "DEPENDENT", "owner key")
		assert.True(t, errors.Is(err, erddl.ErrMissingOwnerKey))
		assert.True(t, erddl.IsMissingKey(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, erddl.IsMissingKey(erddl.ErrIO))
		assert.False(t, erddl.IsMissingKey(nil))
	})
}

func TestDanglingConnectionError(t *testing.T) {
	err := erddl.NewDanglingConnectionError("c1", "ghost")
	assert.Equal(t, `erddl: connection "c1" references missing node "ghost"`, err.Error())
	assert.True(t, errors.Is(err, erddl.ErrDanglingConnection))
	assert.True(t, erddl.IsDanglingConnection(fmt.Errorf("load: %w", err)))
	assert.False(t, erddl.IsDanglingConnection(errors.New("other")))
}

func TestIOError(t *testing.T) {
	t.Run("Error and Unwrap", func(t *testing.T) {
		cause := errors.New("disk full")
		err := erddl.NewIOError("write", "/tmp/out.sql", cause)

		assert.Equal(t, "erddl: write /tmp/out.sql: disk full", err.Error())
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, erddl.ErrIO))
	})

	t.Run("Error without op", func(t *testing.T) {
		err := &erddl.IOError{}
		assert.Equal(t, "erddl: i/o", err.Error())
	})

	t.Run("IsIO", func(t *testing.T) {
		err := erddl.NewIOError("read", "in.json", nil)
		assert.True(t, erddl.IsIO(err))
		assert.False(t, erddl.IsIO(nil))
	})
}

func TestUnsupportedError(t *testing.T) {
	err := erddl.NewUnsupportedError("relationships", "SUPPLIES", "ternary relationship")
	assert.Equal(t, "erddl: SUPPLIES not translated during relationships: ternary relationship", err.Error())
	assert.True(t, erddl.IsUnsupported(err))
	assert.False(t, erddl.IsUnsupported(erddl.ErrIO))
}

func TestPhaseError(t *testing.T) {
	t.Run("Wraps cause", func(t *testing.T) {
		cause := erddl.NewUnknownNodeKindError("n9", "Sprocket")
		err := erddl.NewPhaseError("classify", cause)
		require.Error(t, err)

		assert.Contains(t, err.Error(), "erddl: phase classify")
		assert.True(t, erddl.IsUnknownNodeKind(err))

		phase, ok := erddl.PhaseOf(err)
		require.True(t, ok)
		assert.Equal(t, "classify", phase)
	})

	t.Run("Nil cause", func(t *testing.T) {
		assert.NoError(t, erddl.NewPhaseError("tables", nil))
	})

	t.Run("PhaseOf plain error", func(t *testing.T) {
		_, ok := erddl.PhaseOf(errors.New("plain"))
		assert.False(t, ok)
	})
}
