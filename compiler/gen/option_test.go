package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/erddl/dialect"
)

func TestNewConfigDefaults(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.NotNil(t, c.Logger)
	assert.Equal(t, DefaultErrorBase, c.ErrorBase)
	assert.True(t, c.Triggers)
	assert.Equal(t, dialect.Oracle, c.Dialect)
	assert.Empty(t, c.Header)
}

func TestWithErrorBase(t *testing.T) {
	tests := []struct {
		name    string
		base    int
		wantErr bool
	}{
		{"lower bound", 20000, false},
		{"inside", 20500, false},
		{"upper bound", 20999, false},
		{"below range", 19999, true},
		{"above range", 21000, true},
		{"negative", -20000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithErrorBase(tt.base)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.base, c.ErrorBase)
		})
	}
}

func TestWithDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"oracle", dialect.Oracle, false},
		{"", dialect.Oracle, false},
		{"Postgres", dialect.Postgres, false},
		{"sqlite3", dialect.SQLite, false},
		{"mysql", dialect.MySQL, false},
		{"db2", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := &Config{}
			err := WithDialect(tt.in)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Dialect)
		})
	}
}

func TestWithHeader(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithHeader("  generated from hr.json\n")(c))
	assert.Equal(t, "generated from hr.json", c.Header)
}

func TestWithLogger(t *testing.T) {
	t.Run("sets logger", func(t *testing.T) {
		l := zap.NewExample()
		c := &Config{}
		require.NoError(t, WithLogger(l)(c))
		assert.Same(t, l, c.Logger)
	})

	t.Run("nil logger discards", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithLogger(nil)(c))
		assert.NotNil(t, c.Logger)
	})
}

func TestWithTriggers(t *testing.T) {
	c := MustNewConfig(WithTriggers(false))
	assert.False(t, c.Triggers)
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithErrorBase(1), WithDialect("db2"), WithHeader("h"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ErrorBase")
	assert.Contains(t, err.Error(), "Dialect")
	assert.Equal(t, "h", c.Header)
}

func TestMustNewConfigPanics(t *testing.T) {
	assert.Panics(t, func() { MustNewConfig(WithErrorBase(0)) })
}
