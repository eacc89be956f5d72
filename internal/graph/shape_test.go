package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeValidate(t *testing.T) {
	require.NoError(t, Shape{}.Validate())
	require.NoError(t, Shape{2, 3}.Validate())
	require.NoError(t, Shape{2, UnknownDim}.Validate())
	require.NoError(t, Shape{0, math.MaxInt64}.Validate())
	require.ErrorIs(t, Shape{2, -2}.Validate(), ErrInvalidArgument)

	err := Shape{math.MaxInt64, 2}.Validate()
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorContains(t, err, "too many elements")
}

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, int64(1), Shape{}.NumElements())
	assert.Equal(t, int64(6), Shape{2, 3}.NumElements())
	assert.Equal(t, int64(-1), Shape{2, UnknownDim}.NumElements())
}

func TestShapeEqualAndClone(t *testing.T) {
	s := Shape{2, 3}
	assert.True(t, s.Equal(Shape{2, 3}))
	assert.False(t, s.Equal(Shape{2}))
	assert.False(t, s.Equal(Shape{2, 4}))

	c := s.Clone()
	c[0] = 9
	assert.Equal(t, int64(2), s[0])
	assert.Nil(t, Shape(nil).Clone())
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "[]", Shape{}.String())
	assert.Equal(t, "[2,?,3]", Shape{2, UnknownDim, 3}.String())
}
