package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradesdash/internal/grades"
)

func TestBars(t *testing.T) {
	r := NewRenderer(0, 0)
	var buf bytes.Buffer

	err := r.Bars(&buf, "Subject Performance Comparison", []Point{
		{Label: "Math", Score: grades.Of(10)},
		{Label: "Art", Score: grades.Missing()},
		{Label: "English", Score: grades.Of(17)},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Math")
	assert.NotContains(t, out, ">Art<")
}

func TestLine(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"full", []Point{{"Exam 1", grades.Of(8)}, {"Exam 2", grades.Of(15)}, {"Exam 3", grades.Of(7)}}},
		{"gap", []Point{{"Exam 1", grades.Of(8)}, {"Exam 2", grades.Missing()}, {"Exam 3", grades.Of(12)}}},
		{"single point", []Point{{"Exam 1", grades.Of(20)}, {"Exam 2", grades.Missing()}}},
		{"above scale", []Point{{"Exam 1", grades.Of(95)}, {"Exam 2", grades.Of(88)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewRenderer(600, 300).Line(&buf, "Performance Over Time", "Math", tt.points))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestNoData(t *testing.T) {
	r := NewRenderer(0, 0)
	var buf bytes.Buffer
	assert.ErrorIs(t, r.Bars(&buf, "t", nil), ErrNoData)
	assert.ErrorIs(t, r.Bars(&buf, "t", []Point{{"Math", grades.Missing()}}), ErrNoData)
	assert.ErrorIs(t, r.Line(&buf, "t", "s", []Point{{"Exam 1", grades.Missing()}}), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(400, 200).Placeholder(&buf, "No data"))
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "No data")
}

func TestYMax(t *testing.T) {
	assert.Equal(t, 20.0, yMax(0))
	assert.Equal(t, 20.0, yMax(20))
	assert.Equal(t, 21.0, yMax(20.5))
}
