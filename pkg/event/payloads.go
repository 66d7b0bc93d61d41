package event

import (
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/google/uuid"
)

// PlacedPayload ItemPlaced 事件数据
type PlacedPayload struct {
	Anchor  types.Cell
	Evicted []ecs.EntityID
}

// EvictedPayload ItemEvicted 事件数据
type EvictedPayload struct {
	By ecs.EntityID // 引起踢出的物品
}

// ConsumedPayload ItemConsumed 事件数据
type ConsumedPayload struct {
	ConsumedSinceLastSpawn int
	SpawnCount             int
}

// ReturnedPayload ItemReturned 事件数据
type ReturnedPayload struct {
	// Refunded 本次回队列是否撤销了一次批次消耗
	Refunded bool
}

// ReadyPayload ItemReady 事件数据
type ReadyPayload struct {
	Loop int // 第几次就绪（从 1 开始）
}

// BatchPayload BatchSpawned 事件数据
type BatchPayload struct {
	BatchID uuid.UUID
	Items   []ecs.EntityID
	// Requested 目标批次大小，len(Items) 可能因为物品池为空而更小
	Requested int
}
