package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint-board-api/internal/response"
	"sprint-board-api/internal/service"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetVelocity godoc
// @Summary      Velocity 리포트
// @Description  완료된 sprint 별 완료 포인트와 평균입니다
// @Tags         reports
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=engine.VelocityReport} "조회 성공"
// @Security     BearerAuth
// @Router       /boards/{boardId}/reports/velocity [get]
func (h *ReportHandler) GetVelocity(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	report, err := h.reportService.Velocity(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, report)
}

// GetWorkload godoc
// @Summary      Workload 리포트
// @Description  멤버 별 진행 중인 work item 수와 WIP 한도 초과 여부입니다
// @Tags         reports
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]engine.WorkloadRow} "조회 성공"
// @Security     BearerAuth
// @Router       /boards/{boardId}/reports/workload [get]
func (h *ReportHandler) GetWorkload(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	rows, err := h.reportService.Workload(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, rows)
}

// GetEpicProgress godoc
// @Summary      Epic 진행률 리포트
// @Tags         reports
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.EpicProgressResponse} "조회 성공"
// @Security     BearerAuth
// @Router       /boards/{boardId}/reports/epics [get]
func (h *ReportHandler) GetEpicProgress(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	rows, err := h.reportService.EpicProgress(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, rows)
}

// GetBurndown godoc
// @Summary      Burndown 리포트
// @Description  sprint 기간 동안 일자별 남은 포인트와 이상적인 추세선입니다
// @Tags         reports
// @Produce      json
// @Param        id path string true "Sprint ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=engine.BurndownReport} "조회 성공"
// @Failure      404 {object} response.ErrorResponse "Sprint를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /sprints/{id}/burndown [get]
func (h *ReportHandler) GetBurndown(c *gin.Context) {
	sprintID, ok := parseIDParam(c, "id", "sprint")
	if !ok {
		return
	}

	report, err := h.reportService.Burndown(c.Request.Context(), sprintID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, report)
}
