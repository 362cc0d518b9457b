package controller

import (
	"strconv"
	"time"

	"smart_exam_backend/internal/service"
	"smart_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.ExamService
	Export  *service.ExportService
}

func NewExamController(svc *service.ExamService, export *service.ExportService) *ExamController {
	return &ExamController{Service: svc, Export: export}
}

// @Summary Create an exam definition
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ExamRequest true "exam definition"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "field-level validation errors"
// @Failure 409 {object} util.Response "duplicate exam code"
// @Router /api/teacher/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.CreateExam(req, actor)
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// @Summary List exams
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param classId query int false "filter by class"
// @Param subjectId query int false "filter by subject"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	exams, total, err := c.Service.ListExams(
		util.MustParseUint(ctx.Query("classId")),
		util.MustParseUint(ctx.Query("subjectId")),
		page, limit, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"list":  exams,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// @Summary Exam detail
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	exam, err := c.Service.GetExam(id, time.Now())
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

type UpdateExamRequest struct {
	service.ExamRequest
	// ExpectedVersion is the version the client read before editing;
	// a mismatch means somebody else edited the exam in between.
	ExpectedVersion int `json:"expectedVersion" binding:"required"`
}

// @Summary Update an exam definition
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Param body body UpdateExamRequest true "full exam definition plus expected version"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "version conflict or duplicate code"
// @Router /api/teacher/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req UpdateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.UpdateExam(id, req.ExamRequest, req.ExpectedVersion, actor, time.Now())
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary Delete a draft exam
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "only drafts can be deleted"
// @Router /api/teacher/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Service.DeleteExam(id, actor, time.Now()); err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Cancel an exam
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "exam already started or finished"
// @Router /api/teacher/exams/{id}/cancel [post]
func (c *ExamController) CancelExam(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	exam, err := c.Service.CancelExam(id, actor, time.Now())
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

type BulkActionRequest struct {
	Action  string `json:"action" binding:"required"`
	ExamIDs []uint `json:"examIds" binding:"required,min=1"`
}

// @Summary Bulk publish/unpublish/delete exams
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body BulkActionRequest true "action and exam ids"
// @Success 200 {object} util.Response "per-item result list"
// @Router /api/teacher/exams/bulk [post]
func (c *ExamController) BulkAction(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	var req BulkActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	items, err := c.Service.BulkAction(req.Action, req.ExamIDs, actor, time.Now())
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": items})
}

// @Summary Exam and result statistics
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/stats [get]
func (c *ExamController) Stats(ctx *gin.Context) {
	overview, err := c.Service.Stats(time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary Export result sheet to object storage
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response "object key of the CSV"
// @Router /api/teacher/exams/{id}/results/export [get]
func (c *ExamController) ExportResults(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	key, err := c.Export.ExportResults(ctx.Request.Context(), id, actor)
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"objectKey": key})
}
