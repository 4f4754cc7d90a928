package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/response"
	"sprint-board-api/internal/service"
)

type SprintHandler struct {
	sprintService service.SprintService
}

func NewSprintHandler(sprintService service.SprintService) *SprintHandler {
	return &SprintHandler{sprintService: sprintService}
}

// CreateSprint godoc
// @Summary      Sprint 생성
// @Description  epicIds에 포함된 epic의 열린 미배정 work item이 sprint로 들어옵니다
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        request body dto.SaveSprintRequest true "Sprint 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.SprintSaveResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Board 또는 epic을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /boards/{boardId}/sprints [post]
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	ctx, ok := userContext(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}
	var req dto.SaveSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.sprintService.CreateSprint(ctx, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}

// ListSprints godoc
// @Summary      Sprint 목록 조회
// @Tags         sprints
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        includeDeleted query bool false "삭제된 sprint 포함 여부"
// @Success      200 {object} response.SuccessResponse{data=[]dto.SprintResponse} "조회 성공"
// @Security     BearerAuth
// @Router       /boards/{boardId}/sprints [get]
func (h *SprintHandler) ListSprints(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	sprints, err := h.sprintService.ListSprints(c.Request.Context(), boardID, c.Query("includeDeleted") == "true")
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, sprints)
}

// UpdateSprint godoc
// @Summary      Sprint 수정
// @Description  sprint 상태는 유지됩니다. epic 추가/제거에 따라 work item 배정이 다시 계산됩니다
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        id path string true "Sprint ID (UUID)"
// @Param        request body dto.SaveSprintRequest true "Sprint 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.SprintSaveResponse} "수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Sprint를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /sprints/{id} [put]
func (h *SprintHandler) UpdateSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "sprint")
	if !ok {
		return
	}
	var req dto.SaveSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.sprintService.UpdateSprint(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// DeleteSprint godoc
// @Summary      Sprint 삭제
// @Description  action=unassign 이면 work item을 백로그로 돌리고, action=move 이면 targetSprintId로 옮깁니다
// @Description  옮길 수 없는 work item은 skippedItemIds로 보고됩니다. 최근 인증이 필요합니다
// @Tags         sprints
// @Produce      json
// @Param        id path string true "Sprint ID (UUID)"
// @Param        action query string true "처리 방식" Enums(unassign, move)
// @Param        targetSprintId query string false "이동 대상 sprint ID"
// @Success      200 {object} response.SuccessResponse{data=dto.DeleteResponse} "삭제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "재인증 필요"
// @Failure      404 {object} response.ErrorResponse "Sprint를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /sprints/{id} [delete]
func (h *SprintHandler) DeleteSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "sprint")
	if !ok {
		return
	}
	var req dto.DeleteSprintRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid delete action")
		return
	}
	if v := c.Query("targetSprintId"); v != "" {
		target, err := uuid.Parse(v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid target sprint ID")
			return
		}
		req.TargetSprintID = &target
	}

	result, err := h.sprintService.DeleteSprint(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// RestoreSprint godoc
// @Summary      Sprint 복원
// @Tags         sprints
// @Produce      json
// @Param        id path string true "Sprint ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SprintResponse} "복원 성공"
// @Failure      400 {object} response.ErrorResponse "삭제되지 않은 sprint"
// @Failure      401 {object} response.ErrorResponse "재인증 필요"
// @Security     BearerAuth
// @Router       /sprints/{id}/restore [post]
func (h *SprintHandler) RestoreSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "sprint")
	if !ok {
		return
	}

	sprint, err := h.sprintService.RestoreSprint(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, sprint)
}
