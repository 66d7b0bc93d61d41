package systems

import (
	"log"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/decker502/idlegrid/pkg/utils"
	"github.com/zyedidia/generic/mapset"
)

// PlacementSystem 网格放置系统
//
// 负责放置合法性判断、重叠踢出、放置预览。
// 放置策略为"踢出"：目标格子全部在界内即可放置，重叠的物品会被踢出网格。
//
// 所有操作都是全函数：未知或为 0 的物品 ID 视为无操作。
type PlacementSystem struct {
	entityManager *ecs.EntityManager
	bus           *event.Bus
	sink          VisualSink
	layout        config.GridLayout

	// gridEntity 网格实体（持有占用和预览组件）
	gridEntity ecs.EntityID
	grid       *components.GridOccupancyComponent
	preview    *components.PlacementPreviewComponent
}

// NewPlacementSystem 创建放置系统和网格实体
//
// 参数:
//   - em: 实体管理器
//   - bus: 事件总线（可为 nil）
//   - sink: 预览可视化接收器（nil 时丢弃通知）
//   - layout: 网格布局，决定行列数和像素换算
func NewPlacementSystem(em *ecs.EntityManager, bus *event.Bus, sink VisualSink, layout config.GridLayout) *PlacementSystem {
	s := &PlacementSystem{
		entityManager: em,
		bus:           bus,
		sink:          sinkOrNop(sink),
		layout:        layout,
		grid:          components.NewGridOccupancyComponent(layout.Columns, layout.Rows),
		preview:       &components.PlacementPreviewComponent{},
	}

	s.gridEntity = em.CreateEntity()
	em.AddComponent(s.gridEntity, s.grid)
	em.AddComponent(s.gridEntity, s.preview)

	log.Printf("[PlacementSystem] Initialized grid %dx%d (Entity ID: %d)", layout.Columns, layout.Rows, s.gridEntity)
	return s
}

// GridEntity 网格实体 ID
func (s *PlacementSystem) GridEntity() ecs.EntityID { return s.gridEntity }

// Grid 网格占用组件
func (s *PlacementSystem) Grid() *components.GridOccupancyComponent { return s.grid }

// Preview 当前预览状态
func (s *PlacementSystem) Preview() *components.PlacementPreviewComponent { return s.preview }

// Layout 网格布局
func (s *PlacementSystem) Layout() config.GridLayout { return s.layout }

// SetVisualSink 替换可视化接收器（前端创建窗口后注入）
func (s *PlacementSystem) SetVisualSink(sink VisualSink) {
	s.sink = sinkOrNop(sink)
}

// CanPlace 形状锚定在 start 时所有目标格子都在界内
// 重叠不影响结果（重叠的物品会被踢出）
func (s *PlacementSystem) CanPlace(shape *types.ShapeMask, start types.Cell) bool {
	for _, c := range shape.OrDefault().Translate(start) {
		if !s.grid.IsInBounds(c) {
			return false
		}
	}
	return true
}

// CanPlaceStrict 在 CanPlace 的基础上还要求所有目标格子空闲
// 只用于自动寻找空位
func (s *PlacementSystem) CanPlaceStrict(shape *types.ShapeMask, start types.Cell) bool {
	for _, c := range shape.OrDefault().Translate(start) {
		if !s.grid.IsFree(c) {
			return false
		}
	}
	return true
}

// GetOverlapping 返回目标格子上的不同占用者（按目标格子顺序，越界格子跳过）
func (s *PlacementSystem) GetOverlapping(shape *types.ShapeMask, start types.Cell) []ecs.EntityID {
	seen := mapset.New[ecs.EntityID]()
	var out []ecs.EntityID
	for _, c := range shape.OrDefault().Translate(start) {
		owner := s.grid.OwnerAt(c)
		if owner == 0 || seen.Has(owner) {
			continue
		}
		seen.Put(owner)
		out = append(out, owner)
	}
	return out
}

// PlaceWithKick 放置物品并踢出重叠的物品
//
// 参数:
//   - item: 要放置的物品
//   - shape: 物品形状（nil 视为单格）
//   - start: 锚点格子
//   - evict: 每个被踢出的物品恰好调用一次（可为 nil）
//
// 返回:
//   - bool: CanPlace 为 false 时返回 false 且不做任何修改
func (s *PlacementSystem) PlaceWithKick(item ecs.EntityID, shape *types.ShapeMask, start types.Cell, evict EvictSink) bool {
	if item == 0 {
		return false
	}
	shape = shape.OrDefault()
	if !s.CanPlace(shape, start) {
		return false
	}

	var evicted []ecs.EntityID
	for _, other := range s.GetOverlapping(shape, start) {
		if other == item {
			continue
		}
		s.grid.Release(other)
		s.markEvicted(other)
		evicted = append(evicted, other)

		log.Printf("[PlacementSystem] Item %d evicted by item %d", other, item)
		if evict != nil {
			evict(other)
		}
		s.bus.Publish(event.Event{Type: event.ItemEvicted, Item: other, Payload: event.EvictedPayload{By: item}})
	}

	s.grid.Release(item)
	if !s.grid.Occupy(item, shape.Translate(start)) {
		// 界内且重叠已清除，不会发生
		log.Printf("[PlacementSystem] Occupy failed for item %d at %v", item, start)
		return false
	}
	s.markOnGrid(item, start)

	s.bus.Publish(event.Event{Type: event.ItemPlaced, Item: item, Payload: event.PlacedPayload{Anchor: start, Evicted: evicted}})
	return true
}

// Place 不踢出的放置：先释放物品原有格子再占用
// 任一目标格子越界或被其他物品占用时返回 false，网格不变
func (s *PlacementSystem) Place(item ecs.EntityID, shape *types.ShapeMask, start types.Cell) bool {
	if item == 0 {
		return false
	}
	shape = shape.OrDefault()
	if !s.grid.Occupy(item, shape.Translate(start)) {
		return false
	}
	s.markOnGrid(item, start)

	s.bus.Publish(event.Event{Type: event.ItemPlaced, Item: item, Payload: event.PlacedPayload{Anchor: start}})
	return true
}

// Clear 释放物品占用的格子；未放置时为无操作
func (s *PlacementSystem) Clear(item ecs.EntityID) {
	if item == 0 {
		return
	}
	s.grid.Release(item)
	s.markOffGrid(item)
}

// ShowPreview 显示放置预览
// 先清除上一次预览，再按 CanPlace 的结果标记所有界内目标格子
func (s *PlacementSystem) ShowPreview(item ecs.EntityID, shape *types.ShapeMask, start types.Cell) {
	s.ClearPreview()

	shape = shape.OrDefault()
	valid := s.CanPlace(shape, start)
	tag := components.PreviewInvalid
	if valid {
		tag = components.PreviewValid
	}

	for _, c := range shape.Translate(start) {
		if !s.grid.IsInBounds(c) {
			continue
		}
		s.sink.TagCell(c, tag)
		s.preview.TaggedCells = append(s.preview.TaggedCells, c)
	}

	s.preview.Anchor = start
	s.preview.Valid = valid
	s.preview.HasPreview = true
}

// ClearPreview 取消所有已标记格子的标记
func (s *PlacementSystem) ClearPreview() {
	for _, c := range s.preview.TaggedCells {
		s.sink.UntagCell(c)
	}
	s.preview.Forget()
}

// FindFirstFit 按行优先顺序寻找第一个能完整放下形状且不重叠的锚点
func (s *PlacementSystem) FindFirstFit(shape *types.ShapeMask) (types.Cell, bool) {
	shape = shape.OrDefault()
	b := shape.Bounds()
	for y := 0; y+b.MinY+b.Height <= s.grid.Rows(); y++ {
		for x := 0; x+b.MinX+b.Width <= s.grid.Columns(); x++ {
			start := types.Cell{X: x, Y: y}
			if s.CanPlaceStrict(shape, start) {
				return start, true
			}
		}
	}
	return types.Cell{}, false
}

// AnchorPixel 锚点格子左上角的局部像素坐标
func (s *PlacementSystem) AnchorPixel(cell types.Cell) types.Vec2 {
	return utils.CellAnchoredPosition(s.layout, cell)
}

func (s *PlacementSystem) markOnGrid(item ecs.EntityID, start types.Cell) {
	comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
	if !ok {
		return
	}
	comp.Anchor = start
	comp.IsOnGrid = true
	comp.Location = components.LocationGrid
}

// markEvicted 被踢出的物品先脱离网格，由踢出接收器决定去向
func (s *PlacementSystem) markEvicted(item ecs.EntityID) {
	comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
	if !ok {
		return
	}
	comp.IsOnGrid = false
	comp.Location = components.LocationDetached
}

func (s *PlacementSystem) markOffGrid(item ecs.EntityID) {
	comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
	if !ok {
		return
	}
	comp.IsOnGrid = false
}
