package service

import (
	"smart_exam_backend/internal/model"
)

// ResultVisibility is the publication gate's verdict for one result.
type ResultVisibility struct {
	Result bool `json:"result"`
	Review bool `json:"review"`
}

// GateResult decides what a student or parent may see of a result. The
// decision is a pure function of the publication flags and the exam's
// effective status: a result is visible only once it is published and
// the exam allows result viewing; review content additionally requires
// the review flag, or the show-answers flag once the exam completed.
func GateResult(published bool, access model.AccessPolicy, status model.ExamStatus) ResultVisibility {
	visible := published && access.AllowResultView
	if !visible {
		return ResultVisibility{}
	}
	review := access.AllowReview ||
		(access.ShowAnswersAfterExam && status == model.StatusCompleted)
	return ResultVisibility{Result: true, Review: review}
}
