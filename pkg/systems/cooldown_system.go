package systems

import (
	"math"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/event"
)

// CooldownSystem 放置物品的冷却生命周期
//
// 规则:
//   - 首次放到网格上从 0 开始计时
//   - 拿起时暂停，放回网格时从暂停处继续
//   - 回到队列时重置，下次放置重新从 0 开始
//   - 计时完成后发布 ItemReady 并自动开始下一轮
type CooldownSystem struct {
	entityManager *ecs.EntityManager
	bus           *event.Bus
}

// NewCooldownSystem 创建冷却系统
func NewCooldownSystem(em *ecs.EntityManager, bus *event.Bus) *CooldownSystem {
	return &CooldownSystem{
		entityManager: em,
		bus:           bus,
	}
}

func (s *CooldownSystem) lookup(item ecs.EntityID) (*components.ReadinessTimerComponent, *components.CooldownComponent, bool) {
	timer, ok := ecs.GetComponent[*components.ReadinessTimerComponent](s.entityManager, item)
	if !ok {
		return nil, nil, false
	}
	cd, ok := ecs.GetComponent[*components.CooldownComponent](s.entityManager, item)
	if !ok {
		return nil, nil, false
	}
	return timer, cd, true
}

// SetCooldownSeconds 设置冷却时长（下限 MinCooldownSeconds），下一次启动时生效
func (s *CooldownSystem) SetCooldownSeconds(item ecs.EntityID, seconds float64) {
	if _, cd, ok := s.lookup(item); ok {
		cd.Seconds = math.Max(components.MinCooldownSeconds, seconds)
	}
}

// Start 从 0 开始计时并标记已启动过
func (s *CooldownSystem) Start(item ecs.EntityID) {
	timer, cd, ok := s.lookup(item)
	if !ok {
		return
	}
	cd.HasStartedOnce = true
	timer.Configure(cd.Seconds)
	timer.StartOrResume()
}

// Pause 暂停计时（空闲计时器不受影响）
func (s *CooldownSystem) Pause(item ecs.EntityID) {
	if timer, _, ok := s.lookup(item); ok {
		timer.Pause()
	}
}

// Resume 从暂停处继续；从未启动过时等同于 Start
func (s *CooldownSystem) Resume(item ecs.EntityID) {
	timer, cd, ok := s.lookup(item)
	if !ok {
		return
	}
	if !cd.HasStartedOnce {
		s.Start(item)
		return
	}
	timer.StartOrResume()
}

// ResetToQueue 重置计时器并清除已启动标记
func (s *CooldownSystem) ResetToQueue(item ecs.EntityID) {
	timer, cd, ok := s.lookup(item)
	if !ok {
		return
	}
	cd.HasStartedOnce = false
	timer.Reset()
}

// HasStartedOnce 物品是否已经真正启动过冷却
func (s *CooldownSystem) HasStartedOnce(item ecs.EntityID) bool {
	_, cd, ok := s.lookup(item)
	return ok && cd.HasStartedOnce
}

// Update 推进所有物品的计时器
// 完成通知经由计时器的 Completed 回调送达 onCompleted
func (s *CooldownSystem) Update(dt float64) {
	ids := ecs.GetEntitiesWith2[*components.ReadinessTimerComponent, *components.CooldownComponent](s.entityManager)
	for _, id := range ids {
		if !s.entityManager.IsAlive(id) {
			continue
		}
		timer, cd, _ := s.lookup(id)
		s.watch(id, timer, cd)
		timer.Advance(dt)
	}
}

// watch 首次遇到计时器时订阅完成通知
func (s *CooldownSystem) watch(id ecs.EntityID, timer *components.ReadinessTimerComponent, cd *components.CooldownComponent) {
	if cd.ReadyListener != 0 {
		return
	}
	cd.ReadyListener = timer.Subscribe(components.TimerListener{
		Completed: func() { s.onCompleted(id, timer, cd) },
	})
}

// onCompleted 发布 ItemReady 并自动进入下一轮
func (s *CooldownSystem) onCompleted(id ecs.EntityID, timer *components.ReadinessTimerComponent, cd *components.CooldownComponent) {
	cd.Loops++
	s.bus.Publish(event.Event{Type: event.ItemReady, Item: id, Payload: event.ReadyPayload{Loop: cd.Loops}})

	timer.Reset()
	timer.Configure(cd.Seconds)
	timer.StartOrResume()
}
