package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/driveoncampus/internal/account"
	"github.com/langchou/driveoncampus/internal/service"
	"github.com/langchou/driveoncampus/internal/session"
	"github.com/langchou/driveoncampus/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger        *zap.Logger
	campusService *service.CampusService
	validator     *account.Validator
	sessions      *session.Manager
	wsHub         *ws.Hub
	defaultCampus string
	upgrader      websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	campusService *service.CampusService,
	validator *account.Validator,
	sessions *session.Manager,
	wsHub *ws.Hub,
	defaultCampus string,
) *Handler {
	return &Handler{
		logger:        logger,
		campusService: campusService,
		validator:     validator,
		sessions:      sessions,
		wsHub:         wsHub,
		defaultCampus: defaultCampus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 移动端没有固定 Origin
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 校区与车辆
		api.GET("/campuses", h.ListCampuses)
		api.GET("/campuses/:campus/vehicles", h.ListVisibleVehicles)
		api.POST("/campuses/:campus/region", h.ResolveRegion)
		api.POST("/campuses/:campus/reload", h.ReloadCatalog)

		// 租车
		api.GET("/campuses/:campus/vehicles/:id", h.GetRental)
		api.POST("/campuses/:campus/vehicles/:id/rent", h.Rent)

		// 账号表单
		api.POST("/account/login", h.Login)
		api.POST("/account/signup", h.Signup)

		// 地图会话
		api.GET("/sessions", h.ListSessions)
		api.GET("/sessions/:id", h.GetSession)
	}

	// WebSocket 地图会话
	r.GET("/ws", h.HandleMapSession)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// campusError 输出校区相关错误
func (h *Handler) campusError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnknownCampus) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campus not found"})
		return
	}
	h.logger.Error("Campus request failed", zap.Error(err), zap.String("campus", c.Param("campus")))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"campuses":     len(h.campusService.Campuses()),
		"ws_clients":   h.wsHub.ClientCount(),
		"map_sessions": h.sessions.Count(),
	})
}
