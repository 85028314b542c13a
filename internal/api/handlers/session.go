package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/langchou/driveoncampus/internal/catalog"
	"github.com/langchou/driveoncampus/internal/models"
	"github.com/langchou/driveoncampus/internal/region"
	"github.com/langchou/driveoncampus/internal/rental"
	"github.com/langchou/driveoncampus/internal/session"
	"github.com/langchou/driveoncampus/pkg/ws"
)

var errLocationDenied = errors.New("location permission denied")

var _ region.Locator = (*clientLocator)(nil)

// locationReply 客户端对 locate 的回复
type locationReply struct {
	fix    models.Fix
	denied bool
}

// clientLocator 通过 WebSocket 向客户端请求定位
// 客户端只回复一次：location_fix 表示已授权并给出定位，location_denied 表示拒绝
type clientLocator struct {
	replies chan locationReply
	fix     *models.Fix
}

func newClientLocator() *clientLocator {
	return &clientLocator{replies: make(chan locationReply, 1)}
}

// offer 投递客户端回复，多余的回复直接丢弃
func (l *clientLocator) offer(r locationReply) {
	select {
	case l.replies <- r:
	default:
	}
}

func (l *clientLocator) RequestPermission(ctx context.Context) (bool, error) {
	select {
	case r := <-l.replies:
		if r.denied {
			return false, nil
		}
		l.fix = &r.fix
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (l *clientLocator) CurrentPosition(ctx context.Context) (models.Fix, error) {
	if l.fix == nil {
		return models.Fix{}, errLocationDenied
	}
	return *l.fix, nil
}

type sessionInit struct {
	Session  string               `json:"session"`
	Campus   models.Campus        `json:"campus"`
	Region   models.Region        `json:"region"`
	Vehicles []models.VehicleView `json:"vehicles"`
}

type selectRequest struct {
	VehicleID string `json:"vehicle_id"`
}

// HandleMapSession 地图页 WebSocket 会话
// GET /ws?campus=evanston
func (h *Handler) HandleMapSession(c *gin.Context) {
	campusID := c.DefaultQuery("campus", h.defaultCampus)
	campus, err := h.campusService.Campus(campusID)
	if err != nil {
		h.campusError(c, err)
		return
	}
	vehicles, err := h.campusService.Visible(campusID, nil)
	if err != nil {
		h.campusError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	id := uuid.NewString()
	machine := h.sessions.Open(id, campusID, campus.DefaultRegion)
	locator := newClientLocator()

	var client *ws.Client
	client = ws.NewClient(h.wsHub, conn, campusID, func(in ws.Inbound) {
		h.onSessionMessage(client, machine, locator, in)
	})
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()

	_ = client.Send(ws.MsgTypeInit, sessionInit{
		Session:  id,
		Campus:   campus,
		Region:   campus.DefaultRegion,
		Vehicles: catalog.Views(vehicles),
	})
	_ = client.Send(ws.MsgTypeLocate, nil)

	go h.awaitLocation(client, machine, locator)
}

// awaitLocation 等待客户端定位，页面关闭后结果被丢弃
func (h *Handler) awaitLocation(client *ws.Client, machine *session.Machine, locator *clientLocator) {
	st := machine.GetState()
	defer h.sessions.Close(st.ID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-client.Done():
			_ = machine.Dismiss()
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := h.campusService.ResolveRegion(ctx, st.Campus, locator)
	switch {
	case err != nil:
		h.logger.Error("Failed to resolve region", zap.Error(err), zap.String("session", st.ID))
		_ = client.Send(ws.MsgTypeError, err.Error())
	case machine.Resolve(res) != nil:
		h.logger.Debug("Discarding location result", zap.String("session", st.ID))
	default:
		_ = client.Send(ws.MsgTypeRegion, res)
	}

	// 连接断开后清理会话
	<-client.Done()
}

// onSessionMessage 处理客户端消息（在读协程中调用）
func (h *Handler) onSessionMessage(client *ws.Client, machine *session.Machine, locator *clientLocator, in ws.Inbound) {
	switch in.Type {
	case ws.MsgTypeLocationFix:
		var fix models.Fix
		if err := json.Unmarshal(in.Data, &fix); err != nil {
			_ = client.Send(ws.MsgTypeError, "invalid location fix")
			return
		}
		locator.offer(locationReply{fix: fix})

	case ws.MsgTypeLocationDenied:
		locator.offer(locationReply{denied: true})

	case ws.MsgTypeSelect:
		var req selectRequest
		if err := json.Unmarshal(in.Data, &req); err != nil || req.VehicleID == "" {
			_ = client.Send(ws.MsgTypeError, "invalid selection")
			return
		}
		h.selectVehicle(client, machine, req.VehicleID)

	default:
		_ = client.Send(ws.MsgTypeError, "unknown message type")
	}
}

// selectVehicle 选中车辆后发出跳转意图，只携带车辆 ID
func (h *Handler) selectVehicle(client *ws.Client, machine *session.Machine, vehicleID string) {
	res, err := h.campusService.SelectVehicle(client.Campus(), vehicleID)
	if err != nil {
		_ = client.Send(ws.MsgTypeError, err.Error())
		return
	}
	if res.Status == rental.StatusNotFound {
		_ = client.Send(ws.MsgTypeNotFound, gin.H{"vehicle_id": vehicleID, "message": res.Message})
		return
	}
	if err := machine.Select(vehicleID); err != nil {
		_ = client.Send(ws.MsgTypeError, err.Error())
		return
	}

	_ = client.Send(ws.MsgTypeNavigate, gin.H{"screen": "rental", "vehicle_id": vehicleID})
}

// sessionView 会话状态与当前可触发的事件
type sessionView struct {
	*session.MapState
	Events []string `json:"events"`
}

// ListSessions 获取所有地图会话状态
func (h *Handler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.sessions.GetAllStates()})
}

// GetSession 获取单个地图会话
func (h *Handler) GetSession(c *gin.Context) {
	machine, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	events := make([]string, 0, len(session.Events))
	for _, e := range session.Events {
		if machine.CanTransition(e) {
			events = append(events, e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": sessionView{MapState: machine.GetState(), Events: events}})
}
