package systems

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/google/uuid"
)

// checkQueueInvariant 计数与集合大小一致且在 [0, SpawnCount] 内
func checkQueueInvariant(t *testing.T, q *ItemQueueSystem) {
	t.Helper()
	comp := q.Queue()
	if comp.ConsumedSinceLastSpawn != comp.ConsumedThisBatch.Size() {
		t.Fatalf("counter %d != set size %d", comp.ConsumedSinceLastSpawn, comp.ConsumedThisBatch.Size())
	}
	if comp.ConsumedSinceLastSpawn < 0 || comp.ConsumedSinceLastSpawn > comp.SpawnCount {
		t.Fatalf("counter %d out of [0,%d]", comp.ConsumedSinceLastSpawn, comp.SpawnCount)
	}
}

func TestSpawnBatch(t *testing.T) {
	w := newTestWorld(t, true, defSingle, defBar)
	w.queue.SpawnBatch(true)

	items := w.queue.ActiveItems()
	if len(items) != 3 {
		t.Fatalf("spawned %d items, want 3", len(items))
	}
	for _, id := range items {
		item := w.item(t, id)
		if item.Location != components.LocationQueue || !item.IsQueueItem {
			t.Errorf("item %d not a queue item: %+v", id, item)
		}
		if w.timer(t, id).IsRunning() {
			t.Errorf("queue item %d should have an idle timer", id)
		}
	}
	if w.queue.BatchID() == uuid.Nil {
		t.Error("batch id should be assigned")
	}
	if w.events.count(event.BatchSpawned) != 1 {
		t.Errorf("BatchSpawned published %d times", w.events.count(event.BatchSpawned))
	}
	checkQueueInvariant(t, w.queue)
}

// TestRefreshLayout 队列物品从左到右排列：宽度 = w*cell + (w-1)*spacing，间隔 gap
func TestRefreshLayout(t *testing.T) {
	w := newTestWorld(t, true, defSingle, defBar, defSquare)
	w.queue.SpawnBatch(true)
	items := w.queue.ActiveItems()

	cell, spacing, gap := w.layout.CellSize, w.layout.Spacing, w.layout.QueueGap
	single := cell
	bar := 3*cell + 2*spacing

	want := []float64{0, single + gap, single + gap + bar + gap}
	for i, id := range items {
		if got := w.item(t, id).QueueX; got != want[i] {
			t.Errorf("item %d QueueX = %v, want %v", i, got, want[i])
		}
	}

	// 拖拽中的物品不占位置
	w.drag.BeginDrag(items[0], types.Vec2{X: 1, Y: 1}, offGrid)
	w.queue.RefreshLayout()
	if got := w.item(t, items[1]).QueueX; got != 0 {
		t.Errorf("after lifting the first item, second QueueX = %v, want 0", got)
	}
}

func TestSpawnBatchKeepsPlacedItems(t *testing.T) {
	w := newTestWorld(t, true, defSingle)
	w.queue.SpawnBatch(true)
	first := w.queue.ActiveItems()

	if !w.dragTo(first[0], cellPointer(0, 0)) {
		t.Fatal("drop on grid failed")
	}

	w.queue.Reroll()
	w.em.RemoveMarkedEntities()

	if !w.em.IsAlive(first[0]) {
		t.Error("placed item must survive a reroll")
	}
	for _, id := range first[1:] {
		if w.em.IsAlive(id) {
			t.Errorf("queue resident %d should be destroyed on reroll", id)
		}
	}
	if len(w.queue.ActiveItems()) != 3 {
		t.Errorf("reroll should refill the queue, got %d", len(w.queue.ActiveItems()))
	}
	checkGridInvariant(t, w)
}

// TestConsumptionScenario spawnCount=3：放置、回收、再放置直到刷新
func TestConsumptionScenario(t *testing.T) {
	w := newTestWorld(t, true, defSingle)
	w.queue.SpawnBatch(true)
	batch := w.queue.ActiveItems()
	firstBatch := w.queue.BatchID()
	i1, i2, i3 := batch[0], batch[1], batch[2]

	w.dragTo(i1, cellPointer(0, 0))
	if w.queue.ConsumedSinceLastSpawn() != 1 {
		t.Fatalf("after first place: %d, want 1", w.queue.ConsumedSinceLastSpawn())
	}
	checkQueueInvariant(t, w.queue)

	w.dragTo(i2, cellPointer(1, 0))
	if w.queue.ConsumedSinceLastSpawn() != 2 {
		t.Fatalf("after second place: %d, want 2", w.queue.ConsumedSinceLastSpawn())
	}

	// i1 从网格拖回队列：撤销计数
	w.dragTo(i1, offGrid)
	if w.queue.ConsumedSinceLastSpawn() != 1 {
		t.Fatalf("after return: %d, want 1", w.queue.ConsumedSinceLastSpawn())
	}
	if item := w.item(t, i1); item.Location != components.LocationQueue || !item.IsQueueItem {
		t.Errorf("returned item should be a queue item again: %+v", item)
	}
	checkQueueInvariant(t, w.queue)

	// 再次放置 i1 重新计数
	w.dragTo(i1, cellPointer(2, 0))
	if w.queue.ConsumedSinceLastSpawn() != 2 {
		t.Fatalf("after re-place: %d, want 2", w.queue.ConsumedSinceLastSpawn())
	}

	// 第三个不同物品触发刷新
	w.dragTo(i3, cellPointer(3, 0))
	if w.queue.ConsumedSinceLastSpawn() != 0 {
		t.Errorf("new batch should reset the counter, got %d", w.queue.ConsumedSinceLastSpawn())
	}
	if w.queue.BatchID() == firstBatch {
		t.Error("a new batch should have been spawned")
	}
	fresh := w.queue.ActiveItems()
	if len(fresh) != 3 {
		t.Fatalf("new batch has %d items, want 3", len(fresh))
	}
	for _, id := range fresh {
		if id == i1 || id == i2 || id == i3 {
			t.Errorf("new batch reused item %d", id)
		}
	}
	checkQueueInvariant(t, w.queue)
	checkGridInvariant(t, w)

	if w.events.count(event.BatchSpawned) != 2 {
		t.Errorf("BatchSpawned %d, want 2", w.events.count(event.BatchSpawned))
	}
}

func TestNotifyConsumedCountsOnce(t *testing.T) {
	w := newTestWorld(t, true, defSingle)
	w.queue.SpawnBatch(true)
	id := w.queue.ActiveItems()[0]

	w.queue.NotifyConsumed(id)
	w.queue.NotifyConsumed(id)
	w.queue.NotifyConsumed(0)

	if w.queue.ConsumedSinceLastSpawn() != 1 {
		t.Errorf("counted %d, want 1", w.queue.ConsumedSinceLastSpawn())
	}
	if w.queue.Queue().Contains(id) {
		t.Error("consumed item should leave the active list")
	}
	checkQueueInvariant(t, w.queue)
}

func TestReturnToQueueUncountedItem(t *testing.T) {
	w := newTestWorld(t, true, defSingle)
	w.queue.SpawnBatch(true)
	stray := w.newItem(t, defSquare, components.LocationDetached)

	var refunded []bool
	w.bus.Subscribe(event.ItemReturned, func(ev event.Event) {
		refunded = append(refunded, ev.Payload.(event.ReturnedPayload).Refunded)
	})

	w.queue.ReturnToQueue(stray)
	w.queue.ReturnToQueue(stray)
	w.queue.ReturnToQueue(ecs.EntityID(999))

	if w.queue.ConsumedSinceLastSpawn() != 0 {
		t.Error("returning an uncounted item must not go negative")
	}
	if n := len(w.queue.ActiveItems()); n != 4 {
		t.Errorf("active items %d, want 4 (no duplicates)", n)
	}
	if len(refunded) != 2 || refunded[0] || refunded[1] {
		t.Errorf("refunded flags %v, want [false false]", refunded)
	}
}

func TestSpawnBatchEmptyPool(t *testing.T) {
	w := newTestWorld(t, true)
	w.queue.SpawnBatch(true)
	if len(w.queue.ActiveItems()) != 0 {
		t.Error("empty pool should spawn nothing")
	}

	var payload event.BatchPayload
	for _, ev := range w.events.events {
		if ev.Type == event.BatchSpawned {
			payload = ev.Payload.(event.BatchPayload)
		}
	}
	if payload.Requested != 3 || len(payload.Items) != 0 {
		t.Errorf("payload %+v, want 0/3", payload)
	}
}

func TestSetSpawnCount(t *testing.T) {
	w := newTestWorld(t, true, defSingle)
	w.queue.SetSpawnCount(0)
	w.queue.SpawnBatch(true)
	if w.queue.SpawnCount() != 1 {
		t.Errorf("spawn count %d, want floor 1", w.queue.SpawnCount())
	}
	w.queue.SetSpawnCount(5)
	w.queue.SpawnBatch(true)
	if len(w.queue.ActiveItems()) != 5 {
		t.Errorf("spawned %d, want 5", len(w.queue.ActiveItems()))
	}
}

// TestSetSpawnCountWaitsForNextBatch 本批次中途调小数量不能让计数超过阈值
func TestSetSpawnCountWaitsForNextBatch(t *testing.T) {
	w := newTestWorld(t, true, defSingle)
	w.queue.SpawnBatch(true)
	batch := w.queue.ActiveItems()
	first := w.queue.BatchID()

	w.queue.NotifyConsumed(batch[0])
	w.queue.NotifyConsumed(batch[1])
	w.queue.SetSpawnCount(1)

	if w.queue.SpawnCount() != 3 {
		t.Errorf("current batch threshold changed to %d, want 3", w.queue.SpawnCount())
	}
	checkQueueInvariant(t, w.queue)

	// 第三个物品按原阈值触发刷新，新批次使用新数量
	w.queue.NotifyConsumed(batch[2])
	if w.queue.BatchID() == first {
		t.Fatal("third consumption should spawn a new batch")
	}
	if w.queue.SpawnCount() != 1 || len(w.queue.ActiveItems()) != 1 {
		t.Errorf("new batch: spawnCount=%d items=%d, want 1/1", w.queue.SpawnCount(), len(w.queue.ActiveItems()))
	}
	checkQueueInvariant(t, w.queue)
}

// TestQueueInvariantRandomSequence 任意放置、回收、改数量的序列之后计数都保持一致
func TestQueueInvariantRandomSequence(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			w := newTestWorld(t, true, defSingle)
			w.queue.SpawnBatch(true)

			var placed []ecs.EntityID
			for step := 0; step < 200; step++ {
				active := w.queue.ActiveItems()
				switch {
				case rng.Intn(25) == 0:
					w.queue.SetSpawnCount(1 + rng.Intn(4))
				case len(active) > 0 && (len(placed) == 0 || rng.Intn(3) > 0):
					id := active[rng.Intn(len(active))]
					w.item(t, id).Location = components.LocationGrid
					w.queue.NotifyConsumed(id)
					placed = append(placed, id)
				case len(placed) > 0:
					i := rng.Intn(len(placed))
					id := placed[i]
					placed = append(placed[:i], placed[i+1:]...)
					w.queue.ReturnToQueue(id)
				}
				checkQueueInvariant(t, w.queue)
			}
		})
	}
}
