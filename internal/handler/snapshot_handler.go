package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint-board-api/internal/response"
	"sprint-board-api/internal/service"
)

type SnapshotHandler struct {
	snapshotService service.SnapshotService
}

func NewSnapshotHandler(snapshotService service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// ExportSnapshot godoc
// @Summary      Board 스냅샷 저장
// @Description  Board의 work item, epic, sprint를 버전 스냅샷으로 저장합니다
// @Tags         snapshots
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SnapshotResponse} "저장 성공"
// @Failure      404 {object} response.ErrorResponse "Board를 찾을 수 없음"
// @Security     BearerAuth
// @Router       /boards/{boardId}/snapshot [post]
func (h *SnapshotHandler) ExportSnapshot(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	result, err := h.snapshotService.Export(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// ImportSnapshot godoc
// @Summary      Board 스냅샷 복원
// @Description  저장된 스냅샷을 불러와 레거시 work item을 변환한 뒤 Board에 반영합니다
// @Tags         snapshots
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.SnapshotResponse} "복원 성공"
// @Failure      404 {object} response.ErrorResponse "스냅샷을 찾을 수 없음"
// @Security     BearerAuth
// @Router       /boards/{boardId}/snapshot/import [post]
func (h *SnapshotHandler) ImportSnapshot(c *gin.Context) {
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	result, err := h.snapshotService.Import(c.Request.Context(), boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
