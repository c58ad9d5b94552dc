package handlers

import (
	"net/http"

	"smartspend/internal/dto"
	"smartspend/internal/errors"
	"smartspend/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityHandler exposes the caller's own audit trail
type ActivityHandler struct {
	auditService services.AuditServiceInterface
}

func NewActivityHandler(auditService services.AuditServiceInterface) *ActivityHandler {
	return &ActivityHandler{auditService: auditService}
}

// GetActivity lists recent audit events of the caller, newest first
// @Summary Own activity
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.ActivityResponse
// @Router /activity [get]
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	limit := getIntParam(c, "limit", defaultActivityLimit)
	if limit < 1 || limit > maxActivityLimit {
		limit = defaultActivityLimit
	}
	offset := getIntParam(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	logs, total, err := h.auditService.GetUserActivity(userID, offset, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	response := dto.ActivityResponse{
		Activities: make([]dto.ActivityItem, 0, len(logs)),
		Pagination: dto.PaginationMeta{Offset: offset, Limit: limit, Total: total},
	}
	for _, log := range logs {
		response.Activities = append(response.Activities, dto.ActivityItem{
			ID:         log.ID,
			Action:     log.Action,
			Resource:   log.Resource,
			ResourceID: log.ResourceID,
			IPAddress:  log.IPAddress,
			Metadata:   log.Metadata,
			CreatedAt:  log.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, response)
}
