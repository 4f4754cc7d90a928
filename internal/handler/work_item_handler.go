package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/response"
	"sprint-board-api/internal/service"
)

type WorkItemHandler struct {
	workItemService service.WorkItemService
}

func NewWorkItemHandler(workItemService service.WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{workItemService: workItemService}
}

// CreateWorkItem godoc
// @Summary      Work item 생성
// @Description  Board에 work item을 생성합니다. status 기본값은 BACKLOG 이며 작성자는 watcher가 됩니다
// @Tags         work-items
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        request body dto.CreateWorkItemRequest true "Work item 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.WorkItemResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Security     BearerAuth
// @Router       /boards/{boardId}/work-items [post]
func (h *WorkItemHandler) CreateWorkItem(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}
	var req dto.CreateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	ctx, ok := userContext(c)
	if !ok {
		return
	}

	item, err := h.workItemService.CreateWorkItem(ctx, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, item)
}

// ListWorkItems godoc
// @Summary      Work item 목록 조회
// @Description  Board의 work item을 조회합니다. sprintId, epicId, status로 필터링할 수 있습니다
// @Tags         work-items
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        sprintId query string false "Sprint ID 필터"
// @Param        epicId query string false "Epic ID 필터"
// @Param        status query string false "상태 필터" Enums(BACKLOG, TODO, IN_PROGRESS, IN_REVIEW, DONE)
// @Success      200 {object} response.SuccessResponse{data=[]dto.WorkItemResponse} "조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 필터"
// @Security     BearerAuth
// @Router       /boards/{boardId}/work-items [get]
func (h *WorkItemHandler) ListWorkItems(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	var filters dto.WorkItemFilters
	if v := c.Query("sprintId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid sprint ID")
			return
		}
		filters.SprintID = &id
	}
	if v := c.Query("epicId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid epic ID")
			return
		}
		filters.EpicID = &id
	}
	if v := c.Query("status"); v != "" {
		filters.Status = &v
	}

	items, err := h.workItemService.ListWorkItems(c.Request.Context(), boardID, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, items)
}

// GetWorkItem godoc
// @Summary      Work item 조회
// @Tags         work-items
// @Produce      json
// @Param        id path string true "Work item ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.WorkItemResponse} "조회 성공"
// @Failure      404 {object} response.ErrorResponse "Work item을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /work-items/{id} [get]
func (h *WorkItemHandler) GetWorkItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "work item")
	if !ok {
		return
	}

	item, err := h.workItemService.GetWorkItem(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, item)
}

// UpdateWorkItem godoc
// @Summary      Work item 수정 (에디터)
// @Description  에디터에서의 수정입니다. 상태는 워크플로 규칙과 무관하게 지정할 수 있습니다
// @Description  status, assignee, dueDate 변경마다 알림 이벤트가 하나씩 발생합니다
// @Tags         work-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Work item ID (UUID)"
// @Param        request body dto.UpdateWorkItemRequest true "수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.WorkItemResponse} "수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Work item을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /work-items/{id} [put]
func (h *WorkItemHandler) UpdateWorkItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "work item")
	if !ok {
		return
	}
	var req dto.UpdateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	ctx, ok := userContext(c)
	if !ok {
		return
	}

	item, err := h.workItemService.UpdateWorkItem(ctx, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, item)
}

// ChangeStatus godoc
// @Summary      Work item 상태 변경 (보드 드래그)
// @Description  보드 컬럼 간 이동입니다. 워크플로 규칙에 없는 이동은 400을 반환합니다
// @Tags         work-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Work item ID (UUID)"
// @Param        request body dto.ChangeStatusRequest true "상태 변경 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.StatusChangeResponse} "변경 결과"
// @Failure      400 {object} response.ErrorResponse "허용되지 않은 이동"
// @Failure      404 {object} response.ErrorResponse "Work item을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /work-items/{id}/status [patch]
func (h *WorkItemHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "work item")
	if !ok {
		return
	}
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	ctx, ok := userContext(c)
	if !ok {
		return
	}

	result, err := h.workItemService.ChangeStatus(ctx, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// AddComment godoc
// @Summary      댓글 추가
// @Tags         work-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Work item ID (UUID)"
// @Param        request body dto.AddCommentRequest true "댓글"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentResponse} "추가 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "Work item을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /work-items/{id}/comments [post]
func (h *WorkItemHandler) AddComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "work item")
	if !ok {
		return
	}
	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}
	ctx, ok := userContext(c)
	if !ok {
		return
	}

	comment, err := h.workItemService.AddComment(ctx, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// GetSpotlight godoc
// @Summary      Spotlight 조회
// @Description  보드에서 가장 최근에 상태가 바뀐 work item 입니다
// @Tags         work-items
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SpotlightResponse} "조회 성공"
// @Security     BearerAuth
// @Router       /boards/{boardId}/spotlight [get]
func (h *WorkItemHandler) GetSpotlight(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	spotlight, err := h.workItemService.GetSpotlight(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, spotlight)
}
