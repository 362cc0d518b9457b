package service

import (
	"math"
	"sort"

	"smart_exam_backend/internal/model"
	"smart_exam_backend/internal/util"
)

// Evaluation is the derived outcome of one entered score.
type Evaluation struct {
	EffectiveMarks float64
	Percentage     float64
	Grade          string
	Status         model.ResultStatus
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GradeFor maps a percentage onto the fixed letter band table. Bands
// have inclusive lower bounds; the D band floor is the exam's own
// passing percentage, so a score that passes never grades F.
func GradeFor(percentage, passingPercentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= passingPercentage:
		return "D"
	default:
		return "F"
	}
}

// ComputeEvaluation turns an entered raw score into effective marks,
// percentage, grade and pass/fail status under the exam's mark scheme.
// With negative marking enabled the per-question penalty is applied for
// each wrong answer and the effective score is clamped to
// [0, totalMarks]. A scheme with totalMarks == 0 fails loudly rather
// than dividing by zero.
func ComputeEvaluation(rawMarks float64, wrongAnswers int, m model.MarkScheme) (Evaluation, error) {
	if m.TotalMarks <= 0 {
		return Evaluation{}, util.ErrComputation
	}

	effective := rawMarks
	if m.NegativeMarking {
		effective -= float64(wrongAnswers) * m.NegativeMarksPerQuestion
	}
	effective = math.Max(0, math.Min(effective, float64(m.TotalMarks)))

	status := model.ResultFailed
	if effective >= float64(m.PassingMarks) {
		status = model.ResultPassed
	}

	// Band on the exact ratio, not the rounded display value: rounding
	// 1/3 down to 33.33 would drop a passing score below the D floor.
	ratio := effective / float64(m.TotalMarks) * 100

	return Evaluation{
		EffectiveMarks: effective,
		Percentage:     round2(ratio),
		Grade:          GradeFor(ratio, m.PassingPercentage()),
		Status:         status,
	}, nil
}

// AssignRanks orders the cohort by effective marks descending and
// writes ranks in place. Equal marks share a rank; the next distinct
// mark group is ranked previousRank + tiedGroupSize, so two students
// tied at rank 1 push the next score down to rank 3.
//
// The slice must be a point-in-time read of every result for one exam;
// ranking a partial cohort would misplace everyone below the gap.
func AssignRanks(results []model.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EffectiveMarks > results[j].EffectiveMarks
	})

	rank := 0
	tied := 0
	prev := math.Inf(1)
	for i := range results {
		if results[i].EffectiveMarks != prev {
			rank += tied + 1
			tied = 0
			prev = results[i].EffectiveMarks
		} else {
			tied++
		}
		results[i].Rank = rank
	}
}
