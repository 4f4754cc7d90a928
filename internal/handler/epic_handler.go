package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/middleware"
	"sprint-board-api/internal/response"
	"sprint-board-api/internal/service"
)

type EpicHandler struct {
	epicService service.EpicService
}

func NewEpicHandler(epicService service.EpicService) *EpicHandler {
	return &EpicHandler{epicService: epicService}
}

// CreateEpic godoc
// @Summary      Epic 생성
// @Description  ICE 값은 1~10 이며 생략하면 5 입니다. 색상은 생략하면 팔레트에서 자동 배정됩니다
// @Tags         epics
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        request body dto.CreateEpicRequest true "Epic 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.EpicResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Security     BearerAuth
// @Router       /boards/{boardId}/epics [post]
func (h *EpicHandler) CreateEpic(c *gin.Context) {
	ctx, ok := userContext(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}
	var req dto.CreateEpicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	epic, err := h.epicService.CreateEpic(ctx, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, epic)
}

// ListEpics godoc
// @Summary      Epic 목록 조회
// @Tags         epics
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        includeDeleted query bool false "삭제된 epic 포함 여부"
// @Success      200 {object} response.SuccessResponse{data=[]dto.EpicResponse} "조회 성공"
// @Security     BearerAuth
// @Router       /boards/{boardId}/epics [get]
func (h *EpicHandler) ListEpics(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	epics, err := h.epicService.ListEpics(c.Request.Context(), boardID, c.Query("includeDeleted") == "true")
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, epics)
}

// UpdateEpic godoc
// @Summary      Epic 수정
// @Description  이름이나 색상이 바뀌면 소속 work item의 epic 라벨도 함께 갱신됩니다
// @Tags         epics
// @Accept       json
// @Produce      json
// @Param        id path string true "Epic ID (UUID)"
// @Param        request body dto.UpdateEpicRequest true "Epic 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.EpicResponse} "수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Epic을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /epics/{id} [put]
func (h *EpicHandler) UpdateEpic(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "epic")
	if !ok {
		return
	}
	var req dto.UpdateEpicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	epic, err := h.epicService.UpdateEpic(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, epic)
}

// UpdateEpicStatus godoc
// @Summary      Epic 상태 변경
// @Description  DONE은 열린 work item이 없어야 합니다. DELETED는 삭제와 동일하게 처리됩니다
// @Tags         epics
// @Accept       json
// @Produce      json
// @Param        id path string true "Epic ID (UUID)"
// @Param        request body dto.UpdateEpicStatusRequest true "상태 변경 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.EpicResponse} "변경 성공"
// @Failure      400 {object} response.ErrorResponse "허용되지 않은 상태"
// @Failure      401 {object} response.ErrorResponse "DELETED 요청 시 재인증 필요"
// @Failure      404 {object} response.ErrorResponse "Epic을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /epics/{id}/status [patch]
func (h *EpicHandler) UpdateEpicStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "epic")
	if !ok {
		return
	}
	var req dto.UpdateEpicStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	if domain.EpicStatus(req.Status) == domain.EpicStatusDeleted && !middleware.RecentlyAuthenticated(c) {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeReauthRequired, "Please sign in again to continue")
		return
	}

	epic, err := h.epicService.UpdateEpicStatus(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, epic)
}

// DeleteEpic godoc
// @Summary      Epic 삭제
// @Description  Epic을 soft delete 하고 소속 work item에서 분리합니다. 최근 인증이 필요합니다
// @Tags         epics
// @Produce      json
// @Param        id path string true "Epic ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DeleteResponse} "삭제 성공"
// @Failure      401 {object} response.ErrorResponse "재인증 필요"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "Epic을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /epics/{id} [delete]
func (h *EpicHandler) DeleteEpic(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "epic")
	if !ok {
		return
	}

	result, err := h.epicService.DeleteEpic(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// RestoreEpic godoc
// @Summary      Epic 복원
// @Description  삭제된 epic을 ACTIVE 상태로 복원합니다. 분리된 work item은 다시 연결되지 않습니다
// @Tags         epics
// @Produce      json
// @Param        id path string true "Epic ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.EpicResponse} "복원 성공"
// @Failure      400 {object} response.ErrorResponse "삭제되지 않은 epic"
// @Failure      401 {object} response.ErrorResponse "재인증 필요"
// @Security     BearerAuth
// @Router       /epics/{id}/restore [post]
func (h *EpicHandler) RestoreEpic(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "epic")
	if !ok {
		return
	}

	epic, err := h.epicService.RestoreEpic(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, epic)
}
