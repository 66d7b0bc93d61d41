package systems

import (
	"log"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/decker502/idlegrid/pkg/utils"
)

// DragPlacementSystem 拖拽放置控制器
//
// 状态机: Idle -> Dragging -> Idle
//   - BeginDrag: 暂停冷却，计算抓取格子偏移，从网格上拿起，显示预览
//   - MoveDrag: 更新预览
//   - EndDrag: 放到网格（踢出重叠物品）或回到队列
//
// 抓取偏移保证放下时被抓住的格子落在指针所在的格子上：
// 锚点 = 指针格子 - 抓取偏移。
type DragPlacementSystem struct {
	entityManager *ecs.EntityManager
	placement     *PlacementSystem
	queue         *ItemQueueSystem
	cooldown      *CooldownSystem
	resolver      CellResolver
}

// NewDragPlacementSystem 创建拖拽放置系统
//
// 参数:
//   - em: 实体管理器
//   - placement: 放置系统（必需）
//   - queue: 物品队列（可为 nil，此时放置失败的物品恢复到拖拽前的位置）
//   - cooldown: 冷却系统（可为 nil）
//   - resolver: 屏幕坐标到格子的解析器
func NewDragPlacementSystem(
	em *ecs.EntityManager,
	placement *PlacementSystem,
	queue *ItemQueueSystem,
	cooldown *CooldownSystem,
	resolver CellResolver,
) *DragPlacementSystem {
	if resolver == nil {
		log.Printf("[DragPlacementSystem] No cell resolver configured, drops will never reach the grid")
	}
	return &DragPlacementSystem{
		entityManager: em,
		placement:     placement,
		queue:         queue,
		cooldown:      cooldown,
		resolver:      resolver,
	}
}

// SetResolver 替换格子解析器（窗口尺寸或摄像机变化时）
func (s *DragPlacementSystem) SetResolver(resolver CellResolver) {
	s.resolver = resolver
}

func (s *DragPlacementSystem) resolve(pointer types.Vec2) (types.Cell, bool) {
	if s.resolver == nil {
		return types.Cell{}, false
	}
	return s.resolver.ResolveScreenToCell(pointer)
}

func (s *DragPlacementSystem) lookup(item ecs.EntityID) (*components.ItemComponent, *components.DragComponent, bool) {
	if item == 0 {
		return nil, nil, false
	}
	comp, ok := ecs.GetComponent[*components.ItemComponent](s.entityManager, item)
	if !ok {
		return nil, nil, false
	}
	drag, ok := ecs.GetComponent[*components.DragComponent](s.entityManager, item)
	if !ok {
		drag = &components.DragComponent{}
		s.entityManager.AddComponent(item, drag)
	}
	return comp, drag, true
}

// IsDragging 物品是否正在被拖拽
func (s *DragPlacementSystem) IsDragging(item ecs.EntityID) bool {
	drag, ok := ecs.GetComponent[*components.DragComponent](s.entityManager, item)
	return ok && drag.IsDragging()
}

// GrabbedCellOffset 当前抓取偏移；未拖拽或没有偏移时返回 false
func (s *DragPlacementSystem) GrabbedCellOffset(item ecs.EntityID) (types.Cell, bool) {
	drag, ok := ecs.GetComponent[*components.DragComponent](s.entityManager, item)
	if !ok || !drag.HasGrabOffset {
		return types.Cell{}, false
	}
	return drag.GrabbedCellOffset, true
}

// BeginDrag 开始拖拽
//
// 参数:
//   - item: 物品
//   - grabLocal: 指针在物品内部的局部像素坐标（相对物品左上角，Y 向下）
//   - pointer: 指针屏幕坐标
//
// 返回:
//   - bool: 物品不存在或已在拖拽中时返回 false
func (s *DragPlacementSystem) BeginDrag(item ecs.EntityID, grabLocal, pointer types.Vec2) bool {
	comp, drag, ok := s.lookup(item)
	if !ok || drag.IsDragging() {
		return false
	}

	// 拿在手上时冷却暂停（不重置）
	if s.cooldown != nil {
		s.cooldown.Pause(item)
	}

	drag.State = components.DragDragging
	drag.PreDragLocation = comp.Location
	drag.PreDragAnchor = comp.Anchor
	drag.PreDragOnGrid = comp.IsOnGrid
	drag.PreDragQueueX = comp.QueueX
	drag.GrabLocal = grabLocal
	drag.Pointer = pointer

	shape := comp.ShapeOrDefault()
	drag.GrabbedCellOffset, drag.HasGrabOffset = ComputeGrabbedCellOffset(grabLocal, shape, s.placement.Layout())

	if comp.IsOnGrid {
		s.placement.Clear(item)
	}
	comp.Location = components.LocationDragging

	s.updatePreview(item, comp, drag, pointer)
	return true
}

// MoveDrag 指针移动时更新预览
func (s *DragPlacementSystem) MoveDrag(item ecs.EntityID, pointer types.Vec2) {
	comp, drag, ok := s.lookup(item)
	if !ok || !drag.IsDragging() {
		return
	}
	drag.Pointer = pointer
	s.updatePreview(item, comp, drag, pointer)
}

func (s *DragPlacementSystem) updatePreview(item ecs.EntityID, comp *components.ItemComponent, drag *components.DragComponent, pointer types.Vec2) {
	cell, over := s.resolve(pointer)
	if !over {
		s.placement.ClearPreview()
		return
	}
	s.placement.ShowPreview(item, comp.ShapeOrDefault(), applyGrabOffset(cell, drag))
}

// EndDrag 结束拖拽
//
// 指针在网格上且形状完全在界内时放置（踢出重叠物品），否则回到队列。
// 没有队列时恢复到拖拽前的位置。
//
// 返回:
//   - bool: 物品是否被放到网格上
func (s *DragPlacementSystem) EndDrag(item ecs.EntityID, pointer types.Vec2) bool {
	comp, drag, ok := s.lookup(item)
	if !ok || !drag.IsDragging() {
		return false
	}
	drag.State = components.DragIdle
	drag.Pointer = pointer

	shape := comp.ShapeOrDefault()
	cell, over := s.resolve(pointer)
	start := cell
	if over {
		start = applyGrabOffset(cell, drag)
	}

	placed := false
	if over && s.placement.CanPlace(shape, start) {
		placed = s.placement.PlaceWithKick(item, shape, start, s.evict)
	}

	if placed {
		// 首次放置从 0 开始，之后从暂停处继续
		if s.cooldown != nil {
			if s.cooldown.HasStartedOnce(item) {
				s.cooldown.Resume(item)
			} else {
				s.cooldown.Start(item)
			}
		}

		if comp.IsQueueItem {
			comp.IsQueueItem = false
			if s.queue != nil {
				s.queue.NotifyConsumed(item)
			}
		}

		if s.queue != nil {
			s.queue.RefreshLayout()
		}
	} else {
		s.returnOrRestore(item, comp, drag)
	}

	s.placement.ClearPreview()
	drag.ResetGrab()
	return placed
}

// CancelDrag 取消拖拽，等同于放在网格之外
func (s *DragPlacementSystem) CancelDrag(item ecs.EntityID) {
	comp, drag, ok := s.lookup(item)
	if !ok || !drag.IsDragging() {
		return
	}
	drag.State = components.DragIdle

	s.returnOrRestore(item, comp, drag)

	s.placement.ClearPreview()
	drag.ResetGrab()
}

// returnOrRestore 放置失败：回到队列，或在没有队列时恢复拖拽前的位置
func (s *DragPlacementSystem) returnOrRestore(item ecs.EntityID, comp *components.ItemComponent, drag *components.DragComponent) {
	if s.queue != nil {
		s.queue.ReturnToQueue(item)
		if s.cooldown != nil {
			s.cooldown.ResetToQueue(item)
		}
		return
	}

	comp.Location = drag.PreDragLocation
	comp.QueueX = drag.PreDragQueueX
	if !drag.PreDragOnGrid {
		return
	}

	if s.placement.Place(item, comp.ShapeOrDefault(), drag.PreDragAnchor) {
		if s.cooldown != nil {
			s.cooldown.Resume(item)
		}
		return
	}

	log.Printf("[DragPlacementSystem] Item %d could not be restored to %v", item, drag.PreDragAnchor)
	comp.Location = components.LocationDetached
}

// evict 被踢出的物品回到队列并重置冷却
func (s *DragPlacementSystem) evict(item ecs.EntityID) {
	if s.queue != nil {
		s.queue.ReturnToQueue(item)
	}
	if s.cooldown != nil {
		s.cooldown.ResetToQueue(item)
	}
}

func applyGrabOffset(cell types.Cell, drag *components.DragComponent) types.Cell {
	if !drag.HasGrabOffset {
		return cell
	}
	return cell.Sub(drag.GrabbedCellOffset)
}

// ComputeGrabbedCellOffset 计算指针抓住的是形状中的哪个格子
//
// 先按 step = cellSize + spacing 把局部坐标换算成包围盒内的格子并夹紧，
// 再在形状中选择曼哈顿距离最近的已占用格子（距离相同时取形状顺序中靠前的）。
//
// 参数:
//   - grabLocal: 指针相对物品左上角的像素坐标
//   - shape: 物品形状
//   - layout: 网格布局
//
// 返回:
//   - types.Cell: 相对包围盒左上角的格子偏移
//   - bool: 布局无效时返回 false（放置时不做偏移）
func ComputeGrabbedCellOffset(grabLocal types.Vec2, shape *types.ShapeMask, layout config.GridLayout) (types.Cell, bool) {
	shape = shape.OrDefault()
	bounds := shape.Bounds()

	approx, ok := utils.LocalToCellIndex(grabLocal, bounds, layout)
	if !ok {
		return types.Cell{}, false
	}

	best := approx
	bestDist := -1
	for _, c := range shape.Cells() {
		local := types.Cell{X: c.X - bounds.MinX, Y: c.Y - bounds.MinY}
		dist := local.ManhattanDistance(approx)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = local
			if dist == 0 {
				break
			}
		}
	}
	return best, true
}
