package systems

import (
	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/ecs"
)

// CooldownOverlaySystem 把计时器状态呈现为冷却遮罩
//
// 空闲计时器: 填充 0 且隐藏；运行中: 填充 1-progress 且显示。
// 进度来自计时器的 Progress 回调，只有状态变化时才通知可视化接收器。
type CooldownOverlaySystem struct {
	entityManager *ecs.EntityManager
	sink          VisualSink
}

// NewCooldownOverlaySystem 创建冷却遮罩系统
func NewCooldownOverlaySystem(em *ecs.EntityManager, sink VisualSink) *CooldownOverlaySystem {
	return &CooldownOverlaySystem{
		entityManager: em,
		sink:          sinkOrNop(sink),
	}
}

// SetVisualSink 替换可视化接收器，并让所有遮罩在下一帧重新同步
func (s *CooldownOverlaySystem) SetVisualSink(sink VisualSink) {
	s.sink = sinkOrNop(sink)
	for _, id := range ecs.GetEntitiesWith1[*components.CooldownOverlayComponent](s.entityManager) {
		if overlay, ok := ecs.GetComponent[*components.CooldownOverlayComponent](s.entityManager, id); ok {
			overlay.Synced = false
		}
	}
}

// Update 同步所有物品的遮罩状态
func (s *CooldownOverlaySystem) Update(dt float64) {
	ids := ecs.GetEntitiesWith2[*components.ReadinessTimerComponent, *components.CooldownOverlayComponent](s.entityManager)
	for _, id := range ids {
		if !s.entityManager.IsAlive(id) {
			continue
		}
		timer, _ := ecs.GetComponent[*components.ReadinessTimerComponent](s.entityManager, id)
		overlay, _ := ecs.GetComponent[*components.CooldownOverlayComponent](s.entityManager, id)
		watchProgress(timer, overlay)

		fill, visible := 0.0, timer.IsRunning()
		if visible {
			fill = 1 - overlay.Progress
		}
		if overlay.Synced && overlay.Fill == fill && overlay.Visible == visible {
			continue
		}

		s.sink.SetFillProgress(id, fill)
		s.sink.SetVisible(id, visible)

		overlay.Fill = fill
		overlay.Visible = visible
		overlay.Synced = true
	}
}

// watchProgress 订阅计时器进度，订阅前的进度直接读取
func watchProgress(timer *components.ReadinessTimerComponent, overlay *components.CooldownOverlayComponent) {
	if overlay.ProgressListener != 0 {
		return
	}
	overlay.Progress = timer.Progress01()
	overlay.ProgressListener = timer.Subscribe(components.TimerListener{
		Progress: func(p float64) { overlay.Progress = p },
	})
}

// OverlayState 计算计时器对应的遮罩填充与可见性
func OverlayState(timer *components.ReadinessTimerComponent) (fill float64, visible bool) {
	if timer == nil || !timer.IsRunning() {
		return 0, false
	}
	return 1 - timer.Progress01(), true
}
