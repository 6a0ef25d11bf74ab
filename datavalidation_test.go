package oxcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListValidation(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddListValidation("A1:A5", []string{"red", "green", "blue"}, DataValidation{AllowBlank: true}))

	vals := s.Validations()
	require.Len(t, vals, 1)
	assert.Equal(t, ValidationList, vals[0].Type)
	assert.Equal(t, []string{"red", "green", "blue"}, vals[0].Items)
	assert.True(t, vals[0].AllowBlank)
}

func TestAddListValidation_EmptyItemsRejected(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddListValidation("A1:A5", nil, DataValidation{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddValidation_OperandCountEnforced(t *testing.T) {
	s := newTestSheet(t)
	// between needs two operands
	err := s.AddValidation("B1:B5", ValidationWhole, OpBetween, []string{"1"}, DataValidation{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// greaterThan needs exactly one
	err = s.AddValidation("B1:B5", ValidationWhole, OpGreaterThan, []string{"1", "2"}, DataValidation{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, s.AddValidation("B1:B5", ValidationWhole, OpBetween, []string{"1", "10"}, DataValidation{}))
}

func TestAddValidation_UnknownTypeRejected(t *testing.T) {
	s := newTestSheet(t)
	err := s.AddValidation("A1", ValidationType("bogus"), OpBetween, []string{"1", "2"}, DataValidation{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListValidations_FiltersByExactRange(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddListValidation("A1:A5", []string{"x"}, DataValidation{}))
	require.NoError(t, s.AddListValidation("A1:A5", []string{"y"}, DataValidation{}))
	require.NoError(t, s.AddListValidation("B1:B5", []string{"z"}, DataValidation{}))

	lists, err := s.ListValidations("A1:A5")
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	count, err := s.CountValidations("B1:B5")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRemoveValidations(t *testing.T) {
	s := newTestSheet(t)
	require.NoError(t, s.AddListValidation("A1:A5", []string{"x"}, DataValidation{}))
	require.NoError(t, s.AddCustomValidation("B1:B5", "LEN(B1)<10", DataValidation{}))

	removed, err := s.RemoveValidations("A1:A5")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, s.Validations(), 1)
}

func TestAddValidation_MessagesStored(t *testing.T) {
	s := newTestSheet(t)
	opts := DataValidation{
		ErrorTitle:    "Bad value",
		ErrorMessage:  "Pick from the list",
		PromptTitle:   "Hint",
		PromptMessage: "Choose a color",
	}
	require.NoError(t, s.AddListValidation("C1:C3", []string{"a"}, opts))
	vals := s.Validations()
	require.Len(t, vals, 1)
	assert.Equal(t, "Bad value", vals[0].ErrorTitle)
	assert.Equal(t, "Choose a color", vals[0].PromptMessage)
}
