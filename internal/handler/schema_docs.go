package handler

import (
	"sprint-board-api/internal/dto"
	"sprint-board-api/internal/engine"
	"sprint-board-api/internal/notify"
)

// SchemaDocumentation references payloads that are published or reported but
// not returned directly by an endpoint, so swag includes them in the
// definitions section.
type SchemaDocumentation struct {
	UndoResponse     dto.UndoResponse        `json:"undoResponse"`
	SprintTransition engine.SprintTransition `json:"sprintTransition"`
	VelocityPoint    engine.VelocityPoint    `json:"velocityPoint"`
	Toast            notify.Toast            `json:"toast"`
}

// GetSchemaDocumentation is never routed.
// @Summary      Schema Documentation (Not a real endpoint)
// @Description  This endpoint does not exist. It's used to document DTO schemas.
// @Tags         internal
// @Produce      json
// @Success      200 {object} SchemaDocumentation
// @Router       /internal/schemas [get]
func GetSchemaDocumentation() {}
