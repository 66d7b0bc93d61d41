package components

import (
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/types"
)

// GridOccupancyComponent 标识网格实体，记录每个格子的占用者
//
// 不变式: 一个格子被占用，当且仅当它恰好属于一个物品的已占用格子集合。
// owner 按行优先存储 [row*columns+col]，0 表示空格子。
type GridOccupancyComponent struct {
	columns int
	rows    int
	owner   []ecs.EntityID
	cells   map[ecs.EntityID][]types.Cell
}

// NewGridOccupancyComponent 创建 columns x rows 的空网格
// 非正尺寸被视为 0（所有格子都越界）
func NewGridOccupancyComponent(columns, rows int) *GridOccupancyComponent {
	if columns < 0 {
		columns = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &GridOccupancyComponent{
		columns: columns,
		rows:    rows,
		owner:   make([]ecs.EntityID, columns*rows),
		cells:   make(map[ecs.EntityID][]types.Cell),
	}
}

// Columns 列数
func (g *GridOccupancyComponent) Columns() int { return g.columns }

// Rows 行数
func (g *GridOccupancyComponent) Rows() int { return g.rows }

// IsInBounds 0 <= x < columns 且 0 <= y < rows
func (g *GridOccupancyComponent) IsInBounds(c types.Cell) bool {
	return c.X >= 0 && c.X < g.columns && c.Y >= 0 && c.Y < g.rows
}

func (g *GridOccupancyComponent) index(c types.Cell) int {
	return c.Y*g.columns + c.X
}

// IsFree 格子在界内且未被占用
func (g *GridOccupancyComponent) IsFree(c types.Cell) bool {
	return g.IsInBounds(c) && g.owner[g.index(c)] == 0
}

// OwnerAt 返回格子的占用者；越界或空格子返回 0
func (g *GridOccupancyComponent) OwnerAt(c types.Cell) ecs.EntityID {
	if !g.IsInBounds(c) {
		return 0
	}
	return g.owner[g.index(c)]
}

// Occupy 将 cells 标记为 item 所有
//
// 参数:
//   - item: 物品实体 ID（0 无效）
//   - cells: 目标格子（绝对坐标）
//
// 返回:
//   - bool: 任一格子越界或被其他物品占用时拒绝且不做任何修改；
//     成功时先释放 item 原有的格子再标记新格子
func (g *GridOccupancyComponent) Occupy(item ecs.EntityID, cells []types.Cell) bool {
	if item == 0 || len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !g.IsInBounds(c) {
			return false
		}
		if o := g.owner[g.index(c)]; o != 0 && o != item {
			return false
		}
	}

	g.Release(item)

	owned := make([]types.Cell, 0, len(cells))
	for _, c := range cells {
		i := g.index(c)
		if g.owner[i] == item {
			continue
		}
		g.owner[i] = item
		owned = append(owned, c)
	}
	g.cells[item] = owned
	return true
}

// Release 释放 item 占用的所有格子；未放置的物品为无操作
func (g *GridOccupancyComponent) Release(item ecs.EntityID) {
	owned, ok := g.cells[item]
	if !ok {
		return
	}
	for _, c := range owned {
		if g.IsInBounds(c) && g.owner[g.index(c)] == item {
			g.owner[g.index(c)] = 0
		}
	}
	delete(g.cells, item)
}

// CellsOf 返回 item 占用的格子副本（占用顺序）
func (g *GridOccupancyComponent) CellsOf(item ecs.EntityID) []types.Cell {
	owned := g.cells[item]
	out := make([]types.Cell, len(owned))
	copy(out, owned)
	return out
}

// IsPlaced item 当前是否占用任何格子
func (g *GridOccupancyComponent) IsPlaced(item ecs.EntityID) bool {
	_, ok := g.cells[item]
	return ok
}

// OccupiedCount 已占用格子总数
func (g *GridOccupancyComponent) OccupiedCount() int {
	n := 0
	for _, o := range g.owner {
		if o != 0 {
			n++
		}
	}
	return n
}

// PlacedItems 当前在网格上的物品数量
func (g *GridOccupancyComponent) PlacedItems() int {
	return len(g.cells)
}
