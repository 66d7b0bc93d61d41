package components

import (
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// ItemQueueComponent 物品队列状态
//
// 不变式:
//   - ConsumedSinceLastSpawn == ConsumedThisBatch.Size()
//   - 0 <= ConsumedSinceLastSpawn <= SpawnCount
type ItemQueueComponent struct {
	// SpawnCount 每批生成的物品数量（>= 1）
	SpawnCount int

	// ActiveItems 队列中的物品（显示顺序，从左到右）
	ActiveItems []ecs.EntityID

	// ConsumedSinceLastSpawn 本批次已消耗的物品数量
	ConsumedSinceLastSpawn int

	// ConsumedThisBatch 本批次已计为消耗的物品
	ConsumedThisBatch mapset.Set[ecs.EntityID]

	// BatchID 当前批次标识，每次生成新批次时刷新
	BatchID uuid.UUID

	// Gap 队列中相邻物品的水平间隔（像素）
	Gap float64

	// BatchesSpawned 已生成的批次数
	BatchesSpawned int
}

// NewItemQueueComponent 创建空队列
func NewItemQueueComponent(spawnCount int, gap float64) *ItemQueueComponent {
	if spawnCount < 1 {
		spawnCount = 1
	}
	return &ItemQueueComponent{
		SpawnCount:        spawnCount,
		ConsumedThisBatch: mapset.New[ecs.EntityID](),
		Gap:               gap,
	}
}

// Contains 物品是否在 ActiveItems 中
func (q *ItemQueueComponent) Contains(item ecs.EntityID) bool {
	for _, id := range q.ActiveItems {
		if id == item {
			return true
		}
	}
	return false
}

// RemoveActive 从 ActiveItems 中移除物品（保持其余顺序）
func (q *ItemQueueComponent) RemoveActive(item ecs.EntityID) bool {
	for i, id := range q.ActiveItems {
		if id == item {
			q.ActiveItems = append(q.ActiveItems[:i], q.ActiveItems[i+1:]...)
			return true
		}
	}
	return false
}

// MarkConsumed 将物品计为本批次消耗
// 返回 false 表示该物品在本批次中已经计数过
func (q *ItemQueueComponent) MarkConsumed(item ecs.EntityID) bool {
	if q.ConsumedThisBatch.Has(item) {
		return false
	}
	q.ConsumedThisBatch.Put(item)
	q.ConsumedSinceLastSpawn++
	return true
}

// UndoConsumed 撤销物品的消耗计数（下限为 0）
// 返回 false 表示该物品本批次未被计数
func (q *ItemQueueComponent) UndoConsumed(item ecs.EntityID) bool {
	if !q.ConsumedThisBatch.Has(item) {
		return false
	}
	q.ConsumedThisBatch.Remove(item)
	if q.ConsumedSinceLastSpawn > 0 {
		q.ConsumedSinceLastSpawn--
	}
	return true
}

// ResetCounters 清空本批次的消耗记录
func (q *ItemQueueComponent) ResetCounters() {
	q.ConsumedSinceLastSpawn = 0
	q.ConsumedThisBatch = mapset.New[ecs.EntityID]()
}
