package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name  string  `validate:"required"`
	Count int     `validate:"min=1"`
	Lat   float64 `validate:"min=-90,max=90"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateStruct(sampleInput{Name: "ok", Count: 2, Lat: 52.5})
		assert.NoError(t, err)
	})

	t.Run("invalid fields reported", func(t *testing.T) {
		err := ValidateStruct(sampleInput{Count: 0, Lat: 120})
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "validation failed", verr.Error())
		assert.Contains(t, verr.Fields, "Name")
		assert.Contains(t, verr.Fields, "Count")
		assert.Contains(t, verr.Fields, "Lat")
		assert.Len(t, verr.FieldDetails(), 3)
	})
}
