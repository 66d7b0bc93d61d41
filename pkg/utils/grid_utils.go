package utils

import (
	"math"

	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/types"
)

// 网格坐标约定
// 所有像素坐标都以网格根节点左上角为原点，X 轴向右，Y 轴向下。
// 格子 (x, y) 的左上角位于 (paddingLeft + x*step, paddingTop + y*step)，
// 其中 step = cellSize + spacing。

// CellAnchoredPosition 返回格子左上角相对于网格原点的像素坐标
// 物品锚定在 startX/startY 时，其左上角与该格子的左上角重合
//
// 参数:
//   - layout: 网格布局
//   - cell: 格子坐标
//
// 返回:
//   - types.Vec2: 格子左上角的局部像素坐标
func CellAnchoredPosition(layout config.GridLayout, cell types.Cell) types.Vec2 {
	step := layout.Step()
	return types.Vec2{
		X: layout.PaddingLeft + float64(cell.X)*step,
		Y: layout.PaddingTop + float64(cell.Y)*step,
	}
}

// GridPixelSize 返回整个网格（含内边距）的像素尺寸
func GridPixelSize(layout config.GridLayout) types.Vec2 {
	return types.Vec2{
		X: spanPixels(layout.Columns, layout) + layout.PaddingLeft*2,
		Y: spanPixels(layout.Rows, layout) + layout.PaddingTop*2,
	}
}

// ItemPixelSize 返回物品包围盒的像素尺寸
// 宽度 = w*cellSize + (w-1)*spacing，高度同理
func ItemPixelSize(bounds types.Bounds, layout config.GridLayout) types.Vec2 {
	return types.Vec2{
		X: spanPixels(bounds.Width, layout),
		Y: spanPixels(bounds.Height, layout),
	}
}

func spanPixels(n int, layout config.GridLayout) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*layout.CellSize + float64(n-1)*layout.Spacing
}

// ScreenToCell 将屏幕坐标转换为网格格子坐标
//
// 参数:
//   - p: 指针的屏幕坐标
//   - origin: 网格原点（网格左上角）的屏幕坐标
//   - layout: 网格布局
//
// 返回:
//   - types.Cell: 格子坐标
//   - bool: 是否命中格子；网格外或落在格子间隙中返回 false
func ScreenToCell(p, origin types.Vec2, layout config.GridLayout) (types.Cell, bool) {
	step := layout.Step()
	if step <= 0 {
		return types.Cell{}, false
	}

	adjustedX := p.X - origin.X - layout.PaddingLeft
	adjustedY := p.Y - origin.Y - layout.PaddingTop

	cx := int(math.Floor(adjustedX / step))
	cy := int(math.Floor(adjustedY / step))

	if cx < 0 || cx >= layout.Columns || cy < 0 || cy >= layout.Rows {
		return types.Cell{}, false
	}

	// 间隙区域不属于任何格子
	insideX := adjustedX - float64(cx)*step
	insideY := adjustedY - float64(cy)*step
	if insideX > layout.CellSize || insideY > layout.CellSize {
		return types.Cell{}, false
	}

	return types.Cell{X: cx, Y: cy}, true
}

// LocalToCellIndex 将物品内部的局部像素坐标换算为包围盒内的格子索引
// 结果被夹紧到 [0, bounds.Width-1] x [0, bounds.Height-1]
//
// 返回:
//   - types.Cell: 包围盒内的格子索引
//   - bool: step 无效时返回 false
func LocalToCellIndex(local types.Vec2, bounds types.Bounds, layout config.GridLayout) (types.Cell, bool) {
	step := layout.Step()
	if step <= 0.0001 || bounds.Width <= 0 || bounds.Height <= 0 {
		return types.Cell{}, false
	}

	x := clampInt(int(math.Floor(local.X/step)), 0, bounds.Width-1)
	y := clampInt(int(math.Floor(local.Y/step)), 0, bounds.Height-1)
	return types.Cell{X: x, Y: y}, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GridCellResolver 默认的屏幕坐标到格子解析器
// Origin 是网格左上角在世界坐标中的位置，CameraX/CameraY 为摄像机偏移
type GridCellResolver struct {
	Layout  config.GridLayout
	Origin  types.Vec2
	CameraX float64
	CameraY float64
}

// ResolveScreenToCell 解析指针所在的格子
func (r *GridCellResolver) ResolveScreenToCell(pointer types.Vec2) (types.Cell, bool) {
	if r == nil {
		return types.Cell{}, false
	}
	world := types.Vec2{X: pointer.X + r.CameraX, Y: pointer.Y + r.CameraY}
	return ScreenToCell(world, r.Origin, r.Layout)
}

// CellToScreen 返回格子左上角的屏幕坐标（ResolveScreenToCell 的逆变换）
func (r *GridCellResolver) CellToScreen(cell types.Cell) types.Vec2 {
	local := CellAnchoredPosition(r.Layout, cell)
	return types.Vec2{
		X: r.Origin.X + local.X - r.CameraX,
		Y: r.Origin.Y + local.Y - r.CameraY,
	}
}
