package game

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/systems"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/decker502/idlegrid/pkg/utils"
)

// ErrNoItemSource 既没有物品目录也没有物品池选择器
var ErrNoItemSource = errors.New("inventory needs an item catalog or a pool selector")

// InventoryOptions 库存构造参数
type InventoryOptions struct {
	Layout config.GridLayout

	// Catalog 物品目录；Selector 为 nil 时按权重从目录中选择
	Catalog  *config.ItemCatalog
	Selector systems.PoolSelector
	Rand     *rand.Rand

	// GridOrigin 网格左上角的屏幕坐标
	GridOrigin types.Vec2
	// QueueOrigin 队列第一个物品左上角的屏幕坐标
	// 为零值时放在网格正下方，间隔 QueueGap
	QueueOrigin types.Vec2

	// Sink 可视化接收器（可为 nil）
	Sink systems.VisualSink

	// SpawnCount 大于 0 时覆盖布局中的每批物品数量
	SpawnCount int
}

// Inventory 网格库存
//
// 在构造函数中显式接线所有系统，前端只与 Inventory 交互。
// Inventory 不是并发安全的：所有调用必须在同一个 goroutine 上进行。
type Inventory struct {
	entityManager *ecs.EntityManager
	bus           *event.Bus
	layout        config.GridLayout
	resolver      *utils.GridCellResolver
	queueOrigin   types.Vec2

	placement *systems.PlacementSystem
	cooldown  *systems.CooldownSystem
	queue     *systems.ItemQueueSystem
	overlay   *systems.CooldownOverlaySystem
	pulse     *systems.ReadyPulseSystem
	drag      *systems.DragPlacementSystem
}

// NewInventory 创建库存并接线所有系统
// 创建后队列为空，调用 Start() 生成第一批物品
//
// 参数：
//   - opts: 构造参数
//
// 返回：
//   - *Inventory: 库存实例
//   - error: 没有物品来源时返回 ErrNoItemSource
func NewInventory(opts InventoryOptions) (*Inventory, error) {
	selector := opts.Selector
	if selector == nil {
		if opts.Catalog == nil {
			return nil, ErrNoItemSource
		}
		rng := opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		selector = systems.NewCatalogPoolSelector(opts.Catalog, rng)
	}

	layout := opts.Layout
	if opts.SpawnCount > 0 {
		layout.SpawnCount = opts.SpawnCount
	}

	inv := &Inventory{
		entityManager: ecs.NewEntityManager(),
		bus:           event.NewBus(),
		layout:        layout,
		resolver:      &utils.GridCellResolver{Layout: layout, Origin: opts.GridOrigin},
		queueOrigin:   opts.QueueOrigin,
	}
	if inv.queueOrigin == (types.Vec2{}) {
		inv.queueOrigin = defaultQueueOrigin(opts.GridOrigin, layout)
	}

	// 顺序：放置 -> 冷却 -> 队列（依赖冷却） -> 呈现 -> 拖拽（依赖前面所有系统）
	inv.placement = systems.NewPlacementSystem(inv.entityManager, inv.bus, opts.Sink, layout)
	inv.cooldown = systems.NewCooldownSystem(inv.entityManager, inv.bus)
	inv.queue = systems.NewItemQueueSystem(inv.entityManager, inv.bus, selector, inv.cooldown, layout)
	inv.overlay = systems.NewCooldownOverlaySystem(inv.entityManager, opts.Sink)
	inv.pulse = systems.NewReadyPulseSystem(inv.entityManager, inv.bus)
	inv.drag = systems.NewDragPlacementSystem(inv.entityManager, inv.placement, inv.queue, inv.cooldown, inv.resolver)

	log.Printf("[Inventory] Created %dx%d grid, spawnCount=%d", layout.Columns, layout.Rows, layout.SpawnCount)
	return inv, nil
}

func defaultQueueOrigin(gridOrigin types.Vec2, layout config.GridLayout) types.Vec2 {
	size := utils.GridPixelSize(layout)
	return types.Vec2{
		X: gridOrigin.X + layout.PaddingLeft,
		Y: gridOrigin.Y + size.Y + layout.QueueGap,
	}
}

// Start 生成第一批物品
func (inv *Inventory) Start() {
	inv.queue.SpawnBatch(true)
}

// Update 推进一帧：冷却 -> 就绪脉冲 -> 遮罩，最后清理已销毁的实体
func (inv *Inventory) Update(dt float64) {
	inv.cooldown.Update(dt)
	inv.pulse.Update(dt)
	inv.overlay.Update(dt)
	inv.entityManager.RemoveMarkedEntities()
}

// 访问器

func (inv *Inventory) EntityManager() *ecs.EntityManager       { return inv.entityManager }
func (inv *Inventory) Bus() *event.Bus                         { return inv.bus }
func (inv *Inventory) Layout() config.GridLayout               { return inv.layout }
func (inv *Inventory) Placement() *systems.PlacementSystem     { return inv.placement }
func (inv *Inventory) Queue() *systems.ItemQueueSystem         { return inv.queue }
func (inv *Inventory) Cooldown() *systems.CooldownSystem       { return inv.cooldown }
func (inv *Inventory) Drag() *systems.DragPlacementSystem      { return inv.drag }
func (inv *Inventory) Resolver() *utils.GridCellResolver       { return inv.resolver }
func (inv *Inventory) QueueOrigin() types.Vec2                 { return inv.queueOrigin }
func (inv *Inventory) Overlay() *systems.CooldownOverlaySystem { return inv.overlay }

// SetVisualSink 前端创建后注入可视化接收器
func (inv *Inventory) SetVisualSink(sink systems.VisualSink) {
	inv.placement.SetVisualSink(sink)
	inv.overlay.SetVisualSink(sink)
}

// SetOrigins 窗口尺寸变化时移动网格和队列
func (inv *Inventory) SetOrigins(grid, queue types.Vec2) {
	inv.resolver.Origin = grid
	inv.queueOrigin = queue
}

// Items 所有物品实体（ID 升序）
func (inv *Inventory) Items() []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.ItemComponent](inv.entityManager)
}

// Item 物品组件
func (inv *Inventory) Item(id ecs.EntityID) (*components.ItemComponent, bool) {
	return ecs.GetComponent[*components.ItemComponent](inv.entityManager, id)
}

// ItemTopLeft 物品包围盒左上角的屏幕坐标
// 拖拽中的物品跟随指针；脱离状态的物品不显示
func (inv *Inventory) ItemTopLeft(id ecs.EntityID) (types.Vec2, bool) {
	item, ok := inv.Item(id)
	if !ok {
		return types.Vec2{}, false
	}

	switch item.Location {
	case components.LocationGrid:
		b := item.ShapeOrDefault().Bounds()
		return inv.resolver.CellToScreen(item.Anchor.Add(types.Cell{X: b.MinX, Y: b.MinY})), true
	case components.LocationQueue:
		return types.Vec2{X: inv.queueOrigin.X + item.QueueX, Y: inv.queueOrigin.Y}, true
	case components.LocationDragging:
		drag, ok := ecs.GetComponent[*components.DragComponent](inv.entityManager, id)
		if !ok {
			return types.Vec2{}, false
		}
		return types.Vec2{X: drag.Pointer.X - drag.GrabLocal.X, Y: drag.Pointer.Y - drag.GrabLocal.Y}, true
	}
	return types.Vec2{}, false
}

// ItemAt 指针下的物品
//
// 网格上按格子占用判断；队列中只有形状实际覆盖的格子可以被抓取。
//
// 返回：
//   - ecs.EntityID: 物品
//   - types.Vec2: 指针相对物品左上角的局部坐标（BeginDrag 的 grabLocal）
//   - bool: 指针下没有物品时返回 false
func (inv *Inventory) ItemAt(pointer types.Vec2) (ecs.EntityID, types.Vec2, bool) {
	if cell, ok := inv.resolver.ResolveScreenToCell(pointer); ok {
		if owner := inv.placement.Grid().OwnerAt(cell); owner != 0 {
			if topLeft, ok := inv.ItemTopLeft(owner); ok {
				return owner, types.Vec2{X: pointer.X - topLeft.X, Y: pointer.Y - topLeft.Y}, true
			}
		}
	}

	for _, id := range inv.queue.ActiveItems() {
		item, ok := inv.Item(id)
		if !ok || item.Location != components.LocationQueue {
			continue
		}
		topLeft, _ := inv.ItemTopLeft(id)
		shape := item.ShapeOrDefault()
		bounds := shape.Bounds()
		size := utils.ItemPixelSize(bounds, inv.layout)
		local := types.Vec2{X: pointer.X - topLeft.X, Y: pointer.Y - topLeft.Y}
		if local.X < 0 || local.Y < 0 || local.X > size.X || local.Y > size.Y {
			continue
		}
		idx, ok := utils.LocalToCellIndex(local, bounds, inv.layout)
		if !ok || !shape.Contains(types.Cell{X: idx.X + bounds.MinX, Y: idx.Y + bounds.MinY}) {
			continue
		}
		return id, local, true
	}
	return 0, types.Vec2{}, false
}

// BeginDrag 开始拖拽物品
func (inv *Inventory) BeginDrag(id ecs.EntityID, grabLocal, pointer types.Vec2) bool {
	return inv.drag.BeginDrag(id, grabLocal, pointer)
}

// BeginDragAt 抓取指针下的物品
func (inv *Inventory) BeginDragAt(pointer types.Vec2) (ecs.EntityID, bool) {
	id, local, ok := inv.ItemAt(pointer)
	if !ok {
		return 0, false
	}
	if !inv.drag.BeginDrag(id, local, pointer) {
		return 0, false
	}
	return id, true
}

// MoveDrag 更新拖拽预览
func (inv *Inventory) MoveDrag(id ecs.EntityID, pointer types.Vec2) {
	inv.drag.MoveDrag(id, pointer)
}

// EndDrag 放下物品，返回是否放到网格上
func (inv *Inventory) EndDrag(id ecs.EntityID, pointer types.Vec2) bool {
	return inv.drag.EndDrag(id, pointer)
}

// CancelDrag 取消拖拽
func (inv *Inventory) CancelDrag(id ecs.EntityID) {
	inv.drag.CancelDrag(id)
}

// Reroll 丢弃队列中的物品并生成新批次
func (inv *Inventory) Reroll() {
	inv.queue.Reroll()
}

// AutoPlace 把物品放到第一个不与其他物品重叠的位置
// 走与鼠标拖拽相同的流程（冷却启动、批次计数）
//
// 返回：
//   - bool: 网格上没有空位或物品不存在时返回 false
func (inv *Inventory) AutoPlace(id ecs.EntityID) bool {
	item, ok := inv.Item(id)
	if !ok || inv.drag.IsDragging(id) {
		return false
	}
	shape := item.ShapeOrDefault()
	anchor, ok := inv.placement.FindFirstFit(shape)
	if !ok {
		return false
	}

	// 抓住包围盒左上角附近的格子，指针落在 anchor + 抓取偏移的格子内
	offset, _ := systems.ComputeGrabbedCellOffset(types.Vec2{}, shape, inv.layout)
	cellTopLeft := inv.resolver.CellToScreen(anchor.Add(offset))
	pointer := types.Vec2{X: cellTopLeft.X + inv.layout.CellSize/2, Y: cellTopLeft.Y + inv.layout.CellSize/2}

	if !inv.drag.BeginDrag(id, types.Vec2{}, pointer) {
		return false
	}
	return inv.drag.EndDrag(id, pointer)
}

// QueueSlot 队列中第 n 个（从 0 开始）物品
func (inv *Inventory) QueueSlot(n int) (ecs.EntityID, bool) {
	i := 0
	for _, id := range inv.queue.ActiveItems() {
		item, ok := inv.Item(id)
		if !ok || item.Location != components.LocationQueue {
			continue
		}
		if i == n {
			return id, true
		}
		i++
	}
	return 0, false
}

// PulseScale 物品当前的就绪脉冲缩放倍率（1 = 原始大小）
func (inv *Inventory) PulseScale(id ecs.EntityID) float64 {
	pulse, ok := ecs.GetComponent[*components.ReadyPulseComponent](inv.entityManager, id)
	if !ok || !pulse.Active {
		return 1
	}
	return pulse.Scale
}

// CooldownFill 物品冷却遮罩状态
func (inv *Inventory) CooldownFill(id ecs.EntityID) (float64, bool) {
	timer, ok := ecs.GetComponent[*components.ReadinessTimerComponent](inv.entityManager, id)
	if !ok {
		return 0, false
	}
	return systems.OverlayState(timer)
}
