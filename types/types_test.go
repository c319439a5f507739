package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{
		assert.Equal(t, BC_Dirichlet, BC_Wall.Canonical())
		assert.Equal(t, BC_Neuman, BC_Far.Canonical())
		assert.Equal(t, BC_None, BC_None.Canonical())
		assert.Equal(t, "Neuman", BC_Neuman.String())
		assert.Equal(t, "Wall", BC_Wall.String())
		assert.Equal(t, "Far", BC_Far.String())
	}
	{
		assert.Equal(t, StatusOk, StatusOf(nil))
		err := fmt.Errorf("point 3: %w", ErrNonFiniteResidual)
		assert.Equal(t, StatusNonFinite, StatusOf(err))
		assert.Equal(t, StatusConfiguration, StatusOf(NewConfigurationError("extent = %g", -1.)))
		assert.Equal(t, StatusAborted, StatusOf(fmt.Errorf("%w: %w", ErrAborted, errors.New("deadline"))))
		assert.Equal(t, StatusFailed, StatusOf(errors.New("other")))
		assert.Equal(t, "ConfigurationError", StatusConfiguration.String())
		assert.ErrorIs(t, NewConfigurationError("x"), ErrConfiguration)
	}
}
