package controller

import (
	"time"

	"smart_exam_backend/internal/service"
	"smart_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	Service *service.ResultService
}

func NewResultController(svc *service.ResultService) *ResultController {
	return &ResultController{Service: svc}
}

// @Summary Enter or re-enter a student's evaluation
// @Tags results
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Param body body service.EvaluationRequest true "obtained marks and wrong answers"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "marks out of range"
// @Router /api/teacher/exams/{id}/results [post]
func (c *ResultController) Evaluate(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	examID := util.MustParseUint(ctx.Param("id"))
	if examID == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.EvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Evaluate(examID, req, actor)
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary Publish the exam's results
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{id}/results/publish [post]
func (c *ResultController) Publish(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	examID := util.MustParseUint(ctx.Param("id"))
	if examID == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	published, err := c.Service.PublishResults(examID, actor)
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"published": published})
}

// @Summary Results for one exam
// @Description Staff see the full cohort; students and parents only see
// @Description their own result once it has passed the publication gate.
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/results [get]
func (c *ResultController) ResultsForExam(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	examID := util.MustParseUint(ctx.Param("id"))
	if examID == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	data, err := c.Service.ResultsForExam(examID, actor, time.Now())
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, data)
}

// @Summary The caller's own published results
// @Tags results
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/results/me [get]
func (c *ResultController) MyResults(ctx *gin.Context) {
	actor := util.GetUserFromContext(ctx)
	if actor == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.Service.MyResults(actor, time.Now())
	if err != nil {
		util.FailWith(ctx, err)
		return
	}
	util.Success(ctx, results)
}
