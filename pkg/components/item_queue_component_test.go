package components

import (
	"testing"

	"github.com/decker502/idlegrid/pkg/ecs"
)

func TestItemQueueConsumedAccounting(t *testing.T) {
	q := NewItemQueueComponent(3, 20)

	if !q.MarkConsumed(1) {
		t.Fatal("first mark should count")
	}
	if q.MarkConsumed(1) {
		t.Fatal("second mark of the same item should not count")
	}
	q.MarkConsumed(2)
	if q.ConsumedSinceLastSpawn != 2 || q.ConsumedThisBatch.Size() != 2 {
		t.Fatalf("counter %d, set %d; want 2/2", q.ConsumedSinceLastSpawn, q.ConsumedThisBatch.Size())
	}

	if !q.UndoConsumed(1) {
		t.Fatal("undo of counted item should succeed")
	}
	if q.UndoConsumed(1) || q.UndoConsumed(7) {
		t.Fatal("undo of uncounted item should be a no-op")
	}
	if q.ConsumedSinceLastSpawn != 1 || q.ConsumedThisBatch.Size() != 1 {
		t.Fatalf("after undo: counter %d, set %d; want 1/1", q.ConsumedSinceLastSpawn, q.ConsumedThisBatch.Size())
	}

	q.ResetCounters()
	if q.ConsumedSinceLastSpawn != 0 || q.ConsumedThisBatch.Size() != 0 || q.ConsumedThisBatch.Has(2) {
		t.Error("ResetCounters should clear the batch")
	}
}

func TestItemQueueActiveItems(t *testing.T) {
	q := NewItemQueueComponent(0, 0)
	if q.SpawnCount != 1 {
		t.Errorf("spawn count should be floored at 1, got %d", q.SpawnCount)
	}

	q.ActiveItems = []ecs.EntityID{4, 5, 6}
	if !q.RemoveActive(5) || q.Contains(5) {
		t.Fatal("RemoveActive should drop the item")
	}
	if q.RemoveActive(5) {
		t.Error("removing twice should report false")
	}
	if len(q.ActiveItems) != 2 || q.ActiveItems[0] != 4 || q.ActiveItems[1] != 6 {
		t.Errorf("order not kept: %v", q.ActiveItems)
	}
}
