package components

import "github.com/decker502/idlegrid/pkg/types"

// DragState 拖拽状态
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

// DragComponent 物品的拖拽状态
type DragComponent struct {
	State DragState

	// GrabbedCellOffset 抓取的格子相对包围盒左上角的偏移
	// 只在 HasGrabOffset 为 true 时参与放置计算
	GrabbedCellOffset types.Cell
	HasGrabOffset     bool

	// 拖拽开始前的位置，用于没有队列时的回退
	PreDragLocation ItemLocation
	PreDragAnchor   types.Cell
	PreDragOnGrid   bool
	PreDragQueueX   float64

	// GrabLocal 抓取点在物品内部的局部坐标（像素），前端用来跟随指针绘制
	GrabLocal types.Vec2
	// Pointer 最近一次指针位置（屏幕坐标）
	Pointer types.Vec2
}

// IsDragging 是否正在拖拽
func (d *DragComponent) IsDragging() bool {
	return d != nil && d.State == DragDragging
}

// ResetGrab 清除抓取偏移
func (d *DragComponent) ResetGrab() {
	d.GrabbedCellOffset = types.Cell{}
	d.HasGrabOffset = false
}
