package systems

import (
	"log"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/entities"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/utils"
	"github.com/google/uuid"
)

// ItemQueueSystem 物品队列系统
//
// 队列按批次补充物品：每批生成 SpawnCount 个，
// 本批次有 SpawnCount 个不同物品被放到网格上后立即生成新批次。
// 物品回到队列会撤销它在本批次的消耗计数，避免提前刷新。
type ItemQueueSystem struct {
	entityManager *ecs.EntityManager
	bus           *event.Bus
	selector      PoolSelector
	cooldown      *CooldownSystem
	layout        config.GridLayout

	// queueEntity 队列实体ID
	queueEntity ecs.EntityID
	queue       *components.ItemQueueComponent

	// pendingSpawnCount SetSpawnCount 设置、下一批生成时生效的数量，0 表示没有
	pendingSpawnCount int
}

// NewItemQueueSystem 创建物品队列系统
// 创建后队列为空，需调用 SpawnBatch(true) 生成第一批物品
//
// 参数：
//   - em: 实体管理器
//   - bus: 事件总线（可为 nil）
//   - selector: 物品池选择器
//   - cooldown: 冷却系统，物品回到队列时重置冷却（可为 nil）
//   - layout: 网格布局（SpawnCount、QueueGap 与物品像素宽度）
//
// 返回：
//   - 队列系统实例
func NewItemQueueSystem(em *ecs.EntityManager, bus *event.Bus, selector PoolSelector, cooldown *CooldownSystem, layout config.GridLayout) *ItemQueueSystem {
	s := &ItemQueueSystem{
		entityManager: em,
		bus:           bus,
		selector:      selector,
		cooldown:      cooldown,
		layout:        layout,
		queue:         components.NewItemQueueComponent(layout.SpawnCount, layout.QueueGap),
	}

	s.queueEntity = em.CreateEntity()
	em.AddComponent(s.queueEntity, s.queue)

	log.Printf("[ItemQueueSystem] Initialized (Entity ID: %d), spawnCount=%d, gap=%.1f",
		s.queueEntity, s.queue.SpawnCount, s.queue.Gap)
	return s
}

// QueueEntity 队列实体ID
func (s *ItemQueueSystem) QueueEntity() ecs.EntityID { return s.queueEntity }

// Queue 队列组件
func (s *ItemQueueSystem) Queue() *components.ItemQueueComponent { return s.queue }

// ActiveItems 队列中的物品副本（显示顺序）
func (s *ItemQueueSystem) ActiveItems() []ecs.EntityID {
	out := make([]ecs.EntityID, len(s.queue.ActiveItems))
	copy(out, s.queue.ActiveItems)
	return out
}

// ConsumedSinceLastSpawn 本批次已消耗数量
func (s *ItemQueueSystem) ConsumedSinceLastSpawn() int { return s.queue.ConsumedSinceLastSpawn }

// SpawnCount 当前批次的物品数量
func (s *ItemQueueSystem) SpawnCount() int { return s.queue.SpawnCount }

// SetSpawnCount 修改每批物品数量（下限 1），下一批生效
// 当前批次的刷新阈值不变，本批次已有的消耗计数始终 <= SpawnCount
func (s *ItemQueueSystem) SetSpawnCount(n int) {
	if n < 1 {
		n = 1
	}
	s.pendingSpawnCount = n
	log.Printf("[ItemQueueSystem] Spawn count %d scheduled for the next batch", n)
}

// applyPendingSpawnCount 在计数允许时切换到新的每批数量
func (s *ItemQueueSystem) applyPendingSpawnCount() {
	n := s.pendingSpawnCount
	if n == 0 || s.queue.ConsumedSinceLastSpawn > n {
		return
	}
	s.queue.SpawnCount = n
	s.pendingSpawnCount = 0
}

// BatchID 当前批次标识
func (s *ItemQueueSystem) BatchID() uuid.UUID { return s.queue.BatchID }

// SpawnBatch 生成新批次
//
// 销毁仍留在队列中的物品（网格上和拖拽中的物品不受影响），
// 然后从物品池选择 SpawnCount 个定义创建新物品。
// 物品池返回 nil 时提前停止。
//
// 参数：
//   - resetCounters: 是否清空本批次的消耗记录
func (s *ItemQueueSystem) SpawnBatch(resetCounters bool) {
	if resetCounters {
		s.queue.ResetCounters()
	}
	s.applyPendingSpawnCount()

	s.cleanupQueueResidents()

	s.queue.BatchID = uuid.New()
	for i := 0; i < s.queue.SpawnCount; i++ {
		if s.selector == nil {
			log.Printf("[ItemQueueSystem] No pool selector configured")
			break
		}
		def := s.selector.PickNextDefinition()
		if def == nil {
			break
		}

		id, err := entities.NewQueueItemEntity(s.entityManager, def)
		if err != nil {
			log.Printf("[ItemQueueSystem] Failed to create item %s: %v", def.ID, err)
			break
		}
		s.queue.ActiveItems = append(s.queue.ActiveItems, id)
	}
	s.queue.BatchesSpawned++

	s.RefreshLayout()

	log.Printf("[ItemQueueSystem] Spawned batch %s: %d/%d items",
		s.queue.BatchID, len(s.queue.ActiveItems), s.queue.SpawnCount)

	s.bus.Publish(event.Event{
		Type: event.BatchSpawned,
		Payload: event.BatchPayload{
			BatchID:   s.queue.BatchID,
			Items:     s.ActiveItems(),
			Requested: s.queue.SpawnCount,
		},
	})
}

// cleanupQueueResidents 销毁仍在队列中的物品并清空活动列表
func (s *ItemQueueSystem) cleanupQueueResidents() {
	for i := len(s.queue.ActiveItems) - 1; i >= 0; i-- {
		id := s.queue.ActiveItems[i]
		item, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if item.Location == components.LocationQueue {
			item.Location = components.LocationDetached
			s.entityManager.DestroyEntity(id)
		}
	}
	s.queue.ActiveItems = s.queue.ActiveItems[:0]
}

// NotifyConsumed 物品离开队列被放到网格上
//
// 物品总是从活动列表中移除；同一物品在一个批次内最多计数一次。
// 计数达到 SpawnCount 时生成新批次（并清空计数）。
func (s *ItemQueueSystem) NotifyConsumed(item ecs.EntityID) {
	if item == 0 {
		return
	}

	s.queue.RemoveActive(item)

	if !s.queue.MarkConsumed(item) {
		return
	}

	s.bus.Publish(event.Event{
		Type: event.ItemConsumed,
		Item: item,
		Payload: event.ConsumedPayload{
			ConsumedSinceLastSpawn: s.queue.ConsumedSinceLastSpawn,
			SpawnCount:             s.queue.SpawnCount,
		},
	})

	if s.queue.ConsumedSinceLastSpawn >= s.queue.SpawnCount {
		s.SpawnBatch(true)
		return
	}
	s.RefreshLayout()
}

// ReturnToQueue 物品回到队列
//
// 物品重新成为队列物品并重置冷却；若它在本批次被计为消耗，撤销该次计数。
func (s *ItemQueueSystem) ReturnToQueue(item ecs.EntityID) {
	if item == 0 {
		return
	}
	comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
	if !ok {
		return
	}

	comp.Location = components.LocationQueue
	comp.IsQueueItem = true
	comp.IsOnGrid = false
	if s.cooldown != nil {
		s.cooldown.ResetToQueue(item)
	}

	if !s.queue.Contains(item) {
		s.queue.ActiveItems = append(s.queue.ActiveItems, item)
	}

	refunded := s.queue.UndoConsumed(item)

	s.bus.Publish(event.Event{Type: event.ItemReturned, Item: item, Payload: event.ReturnedPayload{Refunded: refunded}})

	s.RefreshLayout()
}

// Reroll 丢弃队列中剩余物品并生成新批次
func (s *ItemQueueSystem) Reroll() {
	s.SpawnBatch(true)
}

// RefreshLayout 从左到右排列队列中的物品
// 不在队列中的物品（拖拽中、已放置）跳过且不占位置
func (s *ItemQueueSystem) RefreshLayout() {
	x := 0.0
	for _, id := range s.queue.ActiveItems {
		item, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, id)
		if !ok || item.Location != components.LocationQueue {
			continue
		}
		item.QueueX = x
		x += utils.ItemPixelSize(item.ShapeOrDefault().Bounds(), s.layout).X + s.queue.Gap
	}
}
