package components

import "github.com/decker502/idlegrid/pkg/types"

// PreviewTag 预览格子的标记类型
type PreviewTag int

const (
	// PreviewNone 无标记（恢复格子原始外观）
	PreviewNone PreviewTag = iota
	// PreviewValid 可放置
	PreviewValid
	// PreviewInvalid 不可放置
	PreviewInvalid
)

// PlacementPreviewComponent 记录网格上当前显示的放置预览
// 与 GridOccupancyComponent 挂在同一个网格实体上
type PlacementPreviewComponent struct {
	// TaggedCells 已通过可视化接收器标记的格子（只含界内格子）
	TaggedCells []types.Cell

	// Anchor 预览锚点；HasPreview 为 false 时无意义
	Anchor     types.Cell
	Valid      bool
	HasPreview bool
}

// Forget 清空记录（不通知可视化接收器）
func (p *PlacementPreviewComponent) Forget() {
	p.TaggedCells = p.TaggedCells[:0]
	p.HasPreview = false
	p.Valid = false
}
