package systems

import (
	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/utils"
)

// ReadyPulseSystem 冷却就绪时让物品短暂放大再还原
// 正在拖拽的物品不播放脉冲
type ReadyPulseSystem struct {
	entityManager *ecs.EntityManager
	subscription  event.SubscriptionID
}

// NewReadyPulseSystem 创建就绪脉冲系统并订阅 ItemReady
func NewReadyPulseSystem(em *ecs.EntityManager, bus *event.Bus) *ReadyPulseSystem {
	s := &ReadyPulseSystem{entityManager: em}
	if bus != nil {
		s.subscription = bus.Subscribe(event.ItemReady, s.onItemReady)
	}
	return s
}

func (s *ReadyPulseSystem) onItemReady(ev event.Event) {
	s.Trigger(ev.Item)
}

// Trigger 为物品启动一次脉冲（重新开始正在播放的脉冲）
func (s *ReadyPulseSystem) Trigger(item ecs.EntityID) {
	pulse, ok := ecs.GetComponent[*components.ReadyPulseComponent](s.entityManager, item)
	if !ok {
		return
	}
	if drag, ok := ecs.GetComponent[*components.DragComponent](s.entityManager, item); ok && drag.IsDragging() {
		return
	}
	pulse.Active = true
	pulse.Elapsed = 0
	pulse.Scale = 1
}

// Update 推进所有脉冲
func (s *ReadyPulseSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.ReadyPulseComponent](s.entityManager) {
		pulse, _ := ecs.GetComponent[*components.ReadyPulseComponent](s.entityManager, id)
		if !pulse.Active {
			continue
		}
		pulse.Elapsed += dt
		if pulse.Elapsed >= pulse.Duration {
			pulse.Active = false
			pulse.Elapsed = 0
			pulse.Scale = 1
			continue
		}
		pulse.Scale = utils.PulseScale(pulse.Elapsed, pulse.Duration, pulse.Peak)
	}
}
