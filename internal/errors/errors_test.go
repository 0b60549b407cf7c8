package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/progression-api/internal/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.CodeInvalidArgument, "tier must be at least 1")

	assert.Equal(t, errors.CodeInvalidArgument, err.Code)
	assert.Equal(t, "INVALID_ARGUMENT: tier must be at least 1", err.Error())
}

func TestWrapPreservesCode(t *testing.T) {
	inner := errors.NotFound("pity counters not found")
	wrapped := errors.Wrap(inner, "failed to load counters")

	assert.Equal(t, errors.CodeNotFound, wrapped.Code)
	assert.True(t, errors.IsNotFound(wrapped))
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapForeignError(t *testing.T) {
	wrapped := errors.Wrap(fmt.Errorf("connection refused"), "redis unavailable")

	assert.Equal(t, errors.CodeInternal, wrapped.Code)
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "nothing"))
	assert.Nil(t, errors.WrapWithCode(nil, errors.CodeUnavailable, "nothing"))
}

func TestWithMeta(t *testing.T) {
	err := errors.InvalidArgument("bad tier").WithMeta("tier", 0)

	meta := errors.GetMeta(err)
	require.NotNil(t, meta)
	assert.Equal(t, 0, meta["tier"])
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.CodeOutOfRange, errors.GetCode(errors.OutOfRange("rarity out of range")))
}

func TestValidationBuilder(t *testing.T) {
	t.Run("no errors returns nil", func(t *testing.T) {
		assert.NoError(t, errors.NewValidationBuilder().Build())
	})

	t.Run("collects field errors", func(t *testing.T) {
		err := errors.NewValidationBuilder().
			RequiredField("RNG").
			Fieldf("Tier", "must be at least %d", 1).
			Build()

		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
		assert.Contains(t, err.Error(), "RNG")
		assert.Contains(t, err.Error(), "Tier")
	})
}
