package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/driveoncampus/internal/models"
	"github.com/langchou/driveoncampus/internal/region"
)

type resolveRegionRequest struct {
	Fix      *models.Fix    `json:"fix"`
	Fallback *models.Region `json:"fallback"`
}

// ResolveRegion 根据客户端已有的定位结果计算视口
// POST /api/campuses/:campus/region
// fix 为 null 表示无定位；fallback 缺省时使用校区默认视口
func (h *Handler) ResolveRegion(c *gin.Context) {
	campus, err := h.campusService.Campus(c.Param("campus"))
	if err != nil {
		h.campusError(c, err)
		return
	}

	// 空请求体等同于无定位
	var req resolveRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fallback := campus.DefaultRegion
	if req.Fallback != nil {
		fallback = *req.Fallback
	}

	res := region.ResolveRegion(c.Request.Context(), region.StaticLocator{Fix: req.Fix}, fallback)
	c.JSON(http.StatusOK, gin.H{"data": res})
}
