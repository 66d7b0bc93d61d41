package entities

import (
	"testing"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
)

func TestNewItemEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	def := &config.ItemDefinition{ID: "dagger", Shape: [][2]int{{0, 0}, {0, 1}}, CooldownSeconds: 1.5}

	id, err := NewQueueItemEntity(em, def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, ok := ecs.GetComponent[*components.ItemComponent](em, id)
	if !ok {
		t.Fatal("ItemComponent missing")
	}
	if item.Location != components.LocationQueue || !item.IsQueueItem || item.IsOnGrid {
		t.Errorf("unexpected initial item state: %+v", item)
	}
	if item.Shape != def.ShapeMask() {
		t.Error("instances must share the definition's shape")
	}

	timer, ok := ecs.GetComponent[*components.ReadinessTimerComponent](em, id)
	if !ok || timer.IsRunning() || timer.Duration() != 1.5 {
		t.Errorf("timer should be idle with duration 1.5, got %+v", timer)
	}

	for name, has := range map[string]bool{
		"CooldownComponent":        ecs.HasComponent[*components.CooldownComponent](em, id),
		"DragComponent":            ecs.HasComponent[*components.DragComponent](em, id),
		"CooldownOverlayComponent": ecs.HasComponent[*components.CooldownOverlayComponent](em, id),
		"ReadyPulseComponent":      ecs.HasComponent[*components.ReadyPulseComponent](em, id),
	} {
		if !has {
			t.Errorf("%s missing", name)
		}
	}
}

func TestNewItemEntityClampsCooldown(t *testing.T) {
	em := ecs.NewEntityManager()
	id, err := NewItemEntity(em, &config.ItemDefinition{ID: "fast", CooldownSeconds: 0.001}, components.LocationDetached)
	if err != nil {
		t.Fatal(err)
	}
	cd, _ := ecs.GetComponent[*components.CooldownComponent](em, id)
	if cd.Seconds != components.MinCooldownSeconds {
		t.Errorf("cooldown %v, want %v", cd.Seconds, components.MinCooldownSeconds)
	}
}

func TestNewItemEntityErrors(t *testing.T) {
	tests := []struct {
		name string
		em   *ecs.EntityManager
		def  *config.ItemDefinition
	}{
		{"nil 实体管理器", nil, &config.ItemDefinition{ID: "a"}},
		{"nil 定义", ecs.NewEntityManager(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if id, err := NewItemEntity(tt.em, tt.def, components.LocationQueue); err == nil || id != 0 {
				t.Errorf("expected error and zero id, got %d, %v", id, err)
			}
		})
	}
}
