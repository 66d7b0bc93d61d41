package entities

import (
	"fmt"
	"math"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
)

// NewItemEntity 创建可放置物品实体
//
// 实体包含物品、就绪计时器、冷却、拖拽、冷却遮罩和就绪脉冲组件。
// 新物品处于空闲状态：计时器已按定义的冷却时间配置但未启动。
//
// 参数:
//   - em: 实体管理器
//   - def: 物品定义（提供形状和冷却时间）
//   - location: 初始位置
//
// 返回:
//   - ecs.EntityID: 创建的物品实体ID
//   - error: em 或 def 为 nil
func NewItemEntity(em *ecs.EntityManager, def *config.ItemDefinition, location components.ItemLocation) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if def == nil {
		return 0, fmt.Errorf("item definition cannot be nil")
	}

	seconds := math.Max(components.MinCooldownSeconds, def.CooldownSeconds)

	id := em.CreateEntity()

	em.AddComponent(id, &components.ItemComponent{
		Definition:  def,
		Shape:       def.ShapeMask(),
		Location:    location,
		IsQueueItem: location == components.LocationQueue,
	})
	em.AddComponent(id, components.NewReadinessTimerComponent(seconds))
	em.AddComponent(id, &components.CooldownComponent{Seconds: seconds})
	em.AddComponent(id, &components.DragComponent{})
	em.AddComponent(id, &components.CooldownOverlayComponent{})
	em.AddComponent(id, components.NewReadyPulseComponent())

	return id, nil
}

// NewQueueItemEntity 创建位于队列中的物品
func NewQueueItemEntity(em *ecs.EntityManager, def *config.ItemDefinition) (ecs.EntityID, error) {
	return NewItemEntity(em, def, components.LocationQueue)
}
