package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-api/internal/fault"
)

type sample struct {
	Title string  `json:"title" validate:"required,min=2,max=250"`
	Price float64 `json:"price" validate:"min=10,max=100"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, New().Validate(sample{Title: "Dune", Price: 42}))
}

func TestValidate_AggregatesMessages(t *testing.T) {
	err := New().Validate(sample{Title: "D", Price: 5})
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindValidation))

	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t,
		"The field title must be at least 2 characters long. The field price must be at least 10.",
		fe.Message)
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(sample{Price: 150})
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "The title field is required.")
	assert.Contains(t, fe.Message, "The field price must be at most 100.")
}
