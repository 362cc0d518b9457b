package service

import (
	"testing"

	"smart_exam_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestGateResult(t *testing.T) {
	tests := []struct {
		name       string
		published  bool
		access     model.AccessPolicy
		status     model.ExamStatus
		wantResult bool
		wantReview bool
	}{
		{
			name:      "unpublished result is invisible",
			published: false,
			access:    model.AccessPolicy{AllowResultView: true, AllowReview: true},
			status:    model.StatusCompleted,
		},
		{
			name:      "result view disabled blocks everything",
			published: true,
			access:    model.AccessPolicy{AllowResultView: false, AllowReview: true},
			status:    model.StatusCompleted,
		},
		{
			name:       "published and viewable, no review",
			published:  true,
			access:     model.AccessPolicy{AllowResultView: true},
			status:     model.StatusCompleted,
			wantResult: true,
		},
		{
			name:       "review flag opens review",
			published:  true,
			access:     model.AccessPolicy{AllowResultView: true, AllowReview: true},
			status:     model.StatusOngoing,
			wantResult: true,
			wantReview: true,
		},
		{
			name:       "show answers only after completion",
			published:  true,
			access:     model.AccessPolicy{AllowResultView: true, ShowAnswersAfterExam: true},
			status:     model.StatusOngoing,
			wantResult: true,
			wantReview: false,
		},
		{
			name:       "show answers once completed",
			published:  true,
			access:     model.AccessPolicy{AllowResultView: true, ShowAnswersAfterExam: true},
			status:     model.StatusCompleted,
			wantResult: true,
			wantReview: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GateResult(tt.published, tt.access, tt.status)
			assert.Equal(t, tt.wantResult, got.Result)
			assert.Equal(t, tt.wantReview, got.Review)
		})
	}
}
