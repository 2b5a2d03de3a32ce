package annot

import (
	"testing"

	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBreak(t *testing.T) {
	list, added, err := AddBreak(nil, 60, 30, 600)
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, list, 1)
	assert.Equal(t, schema.Annotation{X: 10, Y: schema.BreakY, Text: "01:00 - 01:30", IsBreak: true}, list[0])
}

func TestAddBreakIgnoresDuplicateStart(t *testing.T) {
	once, _, err := AddBreak(nil, 60, 30, 600)
	require.NoError(t, err)
	twice, added, err := AddBreak(once, 60, 90, 600)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, twice, len(once))
}

func TestAddBreakRejectsBadInput(t *testing.T) {
	_, _, err := AddBreak(nil, 60, 30, 0)
	assert.ErrorIs(t, err, contract.ErrPrecondition)

	_, _, err = AddBreak(nil, -1, 30, 600)
	assert.ErrorIs(t, err, contract.ErrPrecondition)

	_, _, err = AddBreak(nil, 700, 30, 600)
	assert.ErrorIs(t, err, contract.ErrPrecondition)
}

func TestAddComment(t *testing.T) {
	list, added, err := AddComment(nil, 50, "first")
	require.NoError(t, err)
	assert.True(t, added)

	list, added, err = AddComment(list, 20, "")
	require.NoError(t, err)
	assert.True(t, added)

	// A duplicate at the same time keeps the existing text
	list, added, err = AddComment(list, 50, "second")
	require.NoError(t, err)
	assert.False(t, added)

	require.Len(t, list, 2)
	assert.Equal(t, 20.0, list[0].X)
	assert.Equal(t, 50.0, list[1].X)
	assert.Equal(t, schema.CommentY, list[0].Y)
	assert.Empty(t, list[0].Text)
	assert.Equal(t, "first", list[1].Text)

	_, _, err = AddComment(list, 150, "")
	assert.ErrorIs(t, err, contract.ErrPrecondition)
}

func TestCommentAndBreakMayShareTime(t *testing.T) {
	list, _, err := AddBreak(nil, 60, 30, 600)
	require.NoError(t, err)
	list, added, err := AddComment(list, 10, "")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, list, 2)
}

func TestListStaysSorted(t *testing.T) {
	var list []schema.Annotation
	var err error
	for _, x := range []float64{70, 10, 40} {
		list, _, err = AddComment(list, x, "")
		require.NoError(t, err)
	}
	list, _, err = AddBreak(list, 150, 10, 600)
	require.NoError(t, err)

	xs := make([]float64, 0, len(list))
	for _, a := range list {
		xs = append(xs, a.X)
	}
	assert.Equal(t, []float64{10, 25, 40, 70}, xs)
}

func TestRemoveAt(t *testing.T) {
	list, _, err := AddComment(nil, 10, "")
	require.NoError(t, err)
	list, _, err = AddComment(list, 20, "")
	require.NoError(t, err)

	out, err := RemoveAt(list, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 20.0, out[0].X)
	assert.Len(t, list, 2, "input must not be mutated")

	_, err = RemoveAt(list, 2)
	assert.ErrorIs(t, err, contract.ErrPrecondition)
}

func TestSetText(t *testing.T) {
	list, _, err := AddComment(nil, 10, "")
	require.NoError(t, err)
	list, _, err = AddBreak(list, 120, 30, 600)
	require.NoError(t, err)

	out, err := SetText(list, 0, "patient got distracted")
	require.NoError(t, err)
	assert.Equal(t, "patient got distracted", out[0].Text)
	assert.Empty(t, list[0].Text)

	_, err = SetText(list, 1, "nope")
	assert.ErrorIs(t, err, contract.ErrPrecondition)
}
