package systems

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/entities"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/types"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// directResolver 把指针坐标直接当作格子坐标（越界返回 false）
type directResolver struct {
	columns, rows int
}

func (r directResolver) ResolveScreenToCell(p types.Vec2) (types.Cell, bool) {
	c := types.Cell{X: int(p.X), Y: int(p.Y)}
	if p.X < 0 || p.Y < 0 || c.X >= r.columns || c.Y >= r.rows {
		return types.Cell{}, false
	}
	return c, true
}

// offGrid 不在任何格子上的指针位置
var offGrid = types.Vec2{X: -100, Y: -100}

// cyclingSelector 按顺序循环返回定义
type cyclingSelector struct {
	defs []*config.ItemDefinition
	next int
}

func (s *cyclingSelector) PickNextDefinition() *config.ItemDefinition {
	if len(s.defs) == 0 {
		return nil
	}
	d := s.defs[s.next%len(s.defs)]
	s.next++
	return d
}

// recordingSink 记录所有可视化通知
type recordingSink struct {
	tags     map[types.Cell]components.PreviewTag
	untagged int
	fills    map[ecs.EntityID][]float64
	visible  map[ecs.EntityID][]bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		tags:    make(map[types.Cell]components.PreviewTag),
		fills:   make(map[ecs.EntityID][]float64),
		visible: make(map[ecs.EntityID][]bool),
	}
}

func (r *recordingSink) TagCell(c types.Cell, tag components.PreviewTag) { r.tags[c] = tag }
func (r *recordingSink) UntagCell(c types.Cell) {
	delete(r.tags, c)
	r.untagged++
}
func (r *recordingSink) SetFillProgress(id ecs.EntityID, f float64) {
	r.fills[id] = append(r.fills[id], f)
}
func (r *recordingSink) SetVisible(id ecs.EntityID, v bool) {
	r.visible[id] = append(r.visible[id], v)
}

// eventLog 记录总线事件
type eventLog struct {
	events []event.Event
}

func newEventLog(bus *event.Bus) *eventLog {
	l := &eventLog{}
	for _, t := range []event.Type{event.ItemPlaced, event.ItemEvicted, event.ItemConsumed, event.ItemReturned, event.ItemReady, event.BatchSpawned} {
		bus.Subscribe(t, func(ev event.Event) { l.events = append(l.events, ev) })
	}
	return l
}

func (l *eventLog) count(t event.Type) int {
	n := 0
	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// 常用形状定义
var (
	defSingle = &config.ItemDefinition{ID: "single", Shape: [][2]int{{0, 0}}, CooldownSeconds: 1}
	defSquare = &config.ItemDefinition{ID: "square", Shape: [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, CooldownSeconds: 1}
	defL      = &config.ItemDefinition{ID: "ell", Shape: [][2]int{{0, 0}, {0, 1}, {1, 1}}, CooldownSeconds: 1}
	defBar    = &config.ItemDefinition{ID: "bar", Shape: [][2]int{{0, 0}, {1, 0}, {2, 0}}, CooldownSeconds: 1}
)

// testWorld 完整接线的测试环境（默认 8x6 布局）
type testWorld struct {
	em        *ecs.EntityManager
	bus       *event.Bus
	sink      *recordingSink
	events    *eventLog
	layout    config.GridLayout
	placement *PlacementSystem
	cooldown  *CooldownSystem
	queue     *ItemQueueSystem
	drag      *DragPlacementSystem
	selector  *cyclingSelector
}

func newTestWorld(t *testing.T, withQueue bool, defs ...*config.ItemDefinition) *testWorld {
	t.Helper()
	w := &testWorld{
		em:       ecs.NewEntityManager(),
		bus:      event.NewBus(),
		sink:     newRecordingSink(),
		layout:   config.DefaultGridLayout(),
		selector: &cyclingSelector{defs: defs},
	}
	w.events = newEventLog(w.bus)
	w.placement = NewPlacementSystem(w.em, w.bus, w.sink, w.layout)
	w.cooldown = NewCooldownSystem(w.em, w.bus)
	if withQueue {
		w.queue = NewItemQueueSystem(w.em, w.bus, w.selector, w.cooldown, w.layout)
	}
	w.drag = NewDragPlacementSystem(w.em, w.placement, w.queue, w.cooldown, directResolver{columns: w.layout.Columns, rows: w.layout.Rows})
	return w
}

// newItem 直接创建物品（不经过队列）
func (w *testWorld) newItem(t *testing.T, def *config.ItemDefinition, loc components.ItemLocation) ecs.EntityID {
	t.Helper()
	id, err := entities.NewItemEntity(w.em, def, loc)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func (w *testWorld) item(t *testing.T, id ecs.EntityID) *components.ItemComponent {
	t.Helper()
	comp, ok := ecs.GetComponent[*components.ItemComponent](w.em, id)
	if !ok {
		t.Fatalf("item %d has no ItemComponent", id)
	}
	return comp
}

func (w *testWorld) timer(t *testing.T, id ecs.EntityID) *components.ReadinessTimerComponent {
	t.Helper()
	timer, ok := ecs.GetComponent[*components.ReadinessTimerComponent](w.em, id)
	if !ok {
		t.Fatalf("item %d has no timer", id)
	}
	return timer
}

// dragTo 从格子 (0,0) 抓取并放到 pointer
func (w *testWorld) dragTo(id ecs.EntityID, pointer types.Vec2) bool {
	w.drag.BeginDrag(id, types.Vec2{X: 1, Y: 1}, offGrid)
	return w.drag.EndDrag(id, pointer)
}

func cellPointer(x, y int) types.Vec2 {
	return types.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}
