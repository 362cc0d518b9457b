package service

import (
	"testing"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestComputeEvaluation_PassAtBoundary(t *testing.T) {
	scheme := model.MarkScheme{TotalMarks: 100, PassingMarks: 33}

	eval, err := ComputeEvaluation(33, 0, scheme)
	assert.NoError(t, err)
	assert.Equal(t, 33.0, eval.EffectiveMarks)
	assert.Equal(t, 33.0, eval.Percentage)
	assert.Equal(t, "D", eval.Grade)
	assert.Equal(t, model.ResultPassed, eval.Status)
}

func TestComputeEvaluation_NegativeMarking(t *testing.T) {
	scheme := model.MarkScheme{
		TotalMarks:               100,
		PassingMarks:             33,
		NegativeMarking:          true,
		NegativeMarksPerQuestion: 0.25,
	}

	eval, err := ComputeEvaluation(40, 8, scheme)
	assert.NoError(t, err)
	assert.Equal(t, 38.0, eval.EffectiveMarks)
	assert.Equal(t, 38.0, eval.Percentage)
	assert.Equal(t, model.ResultPassed, eval.Status)

	// A harsher passing bar flips the same score to failed.
	scheme.PassingMarks = 40
	eval, err = ComputeEvaluation(40, 8, scheme)
	assert.NoError(t, err)
	assert.Equal(t, model.ResultFailed, eval.Status)
}

func TestComputeEvaluation_ClampsToZero(t *testing.T) {
	scheme := model.MarkScheme{
		TotalMarks:               100,
		PassingMarks:             33,
		NegativeMarking:          true,
		NegativeMarksPerQuestion: 1,
	}

	eval, err := ComputeEvaluation(3, 10, scheme)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, eval.EffectiveMarks)
	assert.Equal(t, "F", eval.Grade)
	assert.Equal(t, model.ResultFailed, eval.Status)
}

func TestComputeEvaluation_ZeroTotalFailsLoudly(t *testing.T) {
	_, err := ComputeEvaluation(10, 0, model.MarkScheme{TotalMarks: 0})
	assert.ErrorIs(t, err, util.ErrComputation)
}

func TestComputeEvaluation_PassNeverGradesF(t *testing.T) {
	// 1 of 3 rounds down to a display percentage of 33.33 while the
	// passing percentage is 33.33...; the band must use the exact ratio.
	scheme := model.MarkScheme{TotalMarks: 3, PassingMarks: 1}

	eval, err := ComputeEvaluation(1, 0, scheme)
	assert.NoError(t, err)
	assert.Equal(t, model.ResultPassed, eval.Status)
	assert.Equal(t, "D", eval.Grade)
	assert.Equal(t, 33.33, eval.Percentage)

	// Same property across a few non-divisor totals at the exact bar.
	for _, total := range []int{3, 6, 7, 9} {
		scheme := model.MarkScheme{TotalMarks: total, PassingMarks: total / 3}
		eval, err := ComputeEvaluation(float64(total/3), 0, scheme)
		assert.NoError(t, err)
		assert.Equal(t, model.ResultPassed, eval.Status)
		assert.NotEqual(t, "F", eval.Grade, "total %d", total)
	}
}

func TestComputeEvaluation_RoundsToTwoDecimals(t *testing.T) {
	scheme := model.MarkScheme{TotalMarks: 30, PassingMarks: 10}

	eval, err := ComputeEvaluation(10, 0, scheme)
	assert.NoError(t, err)
	assert.Equal(t, 33.33, eval.Percentage)
}

func TestGradeFor_Bands(t *testing.T) {
	passing := 33.0
	tests := []struct {
		percentage float64
		want       string
	}{
		{95, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{75, "B"},
		{70, "B"},
		{65, "C"},
		{60, "C"},
		{45, "D"},
		{33, "D"},
		{32.99, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.percentage, passing),
			"percentage %.2f", tt.percentage)
	}
}

func TestAssignRanks_TiesShareRank(t *testing.T) {
	results := []model.Result{
		{StudentID: 1, EffectiveMarks: 70},
		{StudentID: 2, EffectiveMarks: 85},
		{StudentID: 3, EffectiveMarks: 85},
		{StudentID: 4, EffectiveMarks: 60},
	}

	AssignRanks(results)

	byStudent := make(map[uint]int, len(results))
	for _, r := range results {
		byStudent[r.StudentID] = r.Rank
	}
	assert.Equal(t, 1, byStudent[2])
	assert.Equal(t, 1, byStudent[3])
	// The tied pair at rank 1 pushes the next distinct score to 3.
	assert.Equal(t, 3, byStudent[1])
	assert.Equal(t, 4, byStudent[4])
}

func TestAssignRanks_Monotonic(t *testing.T) {
	results := []model.Result{
		{StudentID: 1, EffectiveMarks: 12},
		{StudentID: 2, EffectiveMarks: 91},
		{StudentID: 3, EffectiveMarks: 47},
		{StudentID: 4, EffectiveMarks: 47},
		{StudentID: 5, EffectiveMarks: 100},
		{StudentID: 6, EffectiveMarks: 0},
	}

	AssignRanks(results)

	// Nobody with strictly higher marks may carry a larger rank.
	for _, a := range results {
		for _, b := range results {
			if a.EffectiveMarks > b.EffectiveMarks {
				assert.Less(t, a.Rank, b.Rank)
			}
			if a.EffectiveMarks == b.EffectiveMarks {
				assert.Equal(t, a.Rank, b.Rank)
			}
		}
	}
}

func TestAssignRanks_Empty(t *testing.T) {
	assert.NotPanics(t, func() { AssignRanks(nil) })
}
