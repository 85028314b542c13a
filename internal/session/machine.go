package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/langchou/driveoncampus/internal/models"
	"github.com/langchou/driveoncampus/internal/region"
)

// 地图页状态常量
const (
	StateLocating  = "locating"
	StateReady     = "ready"
	StateDismissed = "dismissed"
)

// 事件常量
const (
	EventLocated  = "located"
	EventFallback = "fallback"
	EventDismiss  = "dismiss"
)

// Events 全部事件
var Events = []string{EventLocated, EventFallback, EventDismiss}

// MapState 地图页状态快照
type MapState struct {
	ID           string        `json:"id"`
	Campus       string        `json:"campus"`
	CurrentState string        `json:"state"`
	Since        time.Time     `json:"since"`
	Region       models.Region `json:"region"`
	Status       region.Status `json:"status,omitempty"`
	SelectedID   string        `json:"selected_id,omitempty"`
}

// Machine 地图页状态机
// locating 期间展示加载中，定位完成或回退后进入 ready
type Machine struct {
	mu            sync.RWMutex
	fsm           *fsm.FSM
	state         *MapState
	onStateChange func(id string, from, to string)
}

// NewMachine 创建状态机，初始状态为 locating，视口为校区默认视口
func NewMachine(id, campus string, fallback models.Region, onStateChange func(id string, from, to string)) *Machine {
	m := &Machine{
		onStateChange: onStateChange,
		state: &MapState{
			ID:           id,
			Campus:       campus,
			CurrentState: StateLocating,
			Since:        time.Now(),
			Region:       fallback,
		},
	}

	m.fsm = fsm.NewFSM(
		StateLocating,
		fsm.Events{
			{Name: EventLocated, Src: []string{StateLocating}, Dst: StateReady},
			{Name: EventFallback, Src: []string{StateLocating}, Dst: StateReady},
			{Name: EventDismiss, Src: []string{StateLocating, StateReady}, Dst: StateDismissed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onStateChange != nil && e.Src != e.Dst {
					m.onStateChange(id, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// CurrentState 获取当前状态
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// GetState 获取完整状态（副本）
func (m *Machine) GetState() *MapState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stateCopy := *m.state
	stateCopy.CurrentState = m.fsm.Current()
	return &stateCopy
}

// Resolve 应用定位解析结果
// 页面已关闭时结果被丢弃并返回错误
func (m *Machine) Resolve(res region.Resolution) error {
	event := EventFallback
	if res.Status == region.StatusLocated {
		event = EventLocated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.trigger(event); err != nil {
		return err
	}
	m.state.Region = res.Region
	m.state.Status = res.Status
	return nil
}

// Select 记录用户选中的车辆，只允许在 ready 状态下
func (m *Machine) Select(vehicleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current := m.fsm.Current(); current != StateReady {
		return fmt.Errorf("select vehicle in state %s", current)
	}
	m.state.SelectedID = vehicleID
	return nil
}

// Dismiss 关闭地图页
func (m *Machine) Dismiss() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trigger(EventDismiss)
}

// CanTransition 检查是否可以转换
func (m *Machine) CanTransition(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

func (m *Machine) trigger(event string) error {
	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}

	m.state.CurrentState = m.fsm.Current()
	m.state.Since = time.Now()
	return nil
}

// Manager 地图会话管理器
type Manager struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	onChange func(id string, from, to string)
}

// NewManager 创建管理器
func NewManager(onChange func(id string, from, to string)) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		onChange: onChange,
	}
}

// Open 打开新会话
func (m *Manager) Open(id, campus string, fallback models.Region) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()

	machine := NewMachine(id, campus, fallback, m.onChange)
	m.machines[id] = machine
	return machine
}

// Get 获取会话
func (m *Manager) Get(id string) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[id]
	return machine, ok
}

// Close 关闭并移除会话
func (m *Manager) Close(id string) {
	m.mu.Lock()
	machine, ok := m.machines[id]
	delete(m.machines, id)
	m.mu.Unlock()

	if ok {
		_ = machine.Dismiss()
	}
}

// GetAllStates 获取所有会话状态
func (m *Manager) GetAllStates() map[string]*MapState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make(map[string]*MapState, len(m.machines))
	for id, machine := range m.machines {
		states[id] = machine.GetState()
	}
	return states
}

// Count 会话数量
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.machines)
}
