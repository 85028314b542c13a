package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/driveoncampus/internal/catalog"
	"github.com/langchou/driveoncampus/internal/models"
	"github.com/langchou/driveoncampus/internal/rental"
)

// ListCampuses 获取校区列表
func (h *Handler) ListCampuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.campusService.Campuses()})
}

// ListVisibleVehicles 获取范围内车辆
// GET /api/campuses/:campus/vehicles?min_lat=&max_lat=&min_lng=&max_lng=
// 不带参数时使用校区范围
func (h *Handler) ListVisibleVehicles(c *gin.Context) {
	box, err := parseBoundingBox(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicles, err := h.campusService.Visible(c.Param("campus"), box)
	if err != nil {
		h.campusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": catalog.Views(vehicles)})
}

// GetRental 租车详情：车辆信息 + 单价
func (h *Handler) GetRental(c *gin.Context) {
	res, err := h.campusService.SelectVehicle(c.Param("campus"), c.Param("id"))
	if err != nil {
		h.campusError(c, err)
		return
	}
	if res.Status == rental.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": res.Message, "status": res.Status})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rentalView(res.Quote)})
}

// Rent 确认租车
// POST /api/campuses/:campus/vehicles/:id/rent
func (h *Handler) Rent(c *gin.Context) {
	res, err := h.campusService.Rent(c.Param("campus"), c.Param("id"))
	if err != nil {
		h.campusError(c, err)
		return
	}
	if res.Status == rental.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": res.Message, "status": res.Status})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res.Confirmation})
}

// ReloadCatalog 重新加载校区目录
func (h *Handler) ReloadCatalog(c *gin.Context) {
	campus := c.Param("campus")
	n, err := h.campusService.Reload(c.Request.Context(), campus)
	if err != nil {
		h.campusError(c, err)
		return
	}

	h.logger.Info("Catalog reloaded via API", zap.String("campus", campus))
	c.JSON(http.StatusOK, gin.H{
		"message":  "Catalog reloaded",
		"campus":   campus,
		"vehicles": n,
	})
}

func rentalView(q *models.RentalQuote) gin.H {
	return gin.H{
		"vehicle":          catalog.View(q.Vehicle),
		"base_price_cents": q.BasePrice,
		"per_minute_cents": q.PerMinuteRate,
		"base_price":       q.BasePrice.String(),
		"per_minute":       q.PerMinuteRate.Rate(),
	}
}

// parseBoundingBox 四个参数要么全给要么全不给
func parseBoundingBox(c *gin.Context) (*models.BoundingBox, error) {
	keys := []string{"min_lat", "max_lat", "min_lng", "max_lng"}
	values := make([]float64, len(keys))
	present := 0

	for i, key := range keys {
		raw, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s", key)
		}
		values[i] = v
		present++
	}

	switch present {
	case 0:
		return nil, nil
	case len(keys):
		return &models.BoundingBox{
			MinLat: values[0],
			MaxLat: values[1],
			MinLng: values[2],
			MaxLng: values[3],
		}, nil
	default:
		return nil, fmt.Errorf("bounding box requires min_lat, max_lat, min_lng and max_lng")
	}
}
