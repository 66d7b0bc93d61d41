package systems

import (
	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/types"
)

// VisualSink 接收放置预览与冷却遮罩的可视化通知
// 所有调用都是单向通知，接收方不能回调系统
type VisualSink interface {
	// TagCell 将格子标记为可放置/不可放置预览
	TagCell(cell types.Cell, tag components.PreviewTag)
	// UntagCell 恢复格子的默认外观
	UntagCell(cell types.Cell)
	// SetFillProgress 设置物品冷却遮罩的填充比例 [0,1]
	SetFillProgress(item ecs.EntityID, fill01 float64)
	// SetVisible 显示/隐藏物品冷却遮罩
	SetVisible(item ecs.EntityID, visible bool)
}

// NopVisualSink 丢弃所有通知
type NopVisualSink struct{}

func (NopVisualSink) TagCell(types.Cell, components.PreviewTag) {}
func (NopVisualSink) UntagCell(types.Cell)                      {}
func (NopVisualSink) SetFillProgress(ecs.EntityID, float64)     {}
func (NopVisualSink) SetVisible(ecs.EntityID, bool)             {}

// CellResolver 将屏幕坐标解析为网格格子
// 指针不在任何格子上时返回 false
type CellResolver interface {
	ResolveScreenToCell(pointer types.Vec2) (types.Cell, bool)
}

// PoolSelector 为队列提供下一个要生成的物品定义
// 物品池为空时返回 nil
type PoolSelector interface {
	PickNextDefinition() *config.ItemDefinition
}

// EvictSink 接收被踢出网格的物品
type EvictSink func(item ecs.EntityID)

func sinkOrNop(sink VisualSink) VisualSink {
	if sink == nil {
		return NopVisualSink{}
	}
	return sink
}

// overlayEntry 物品冷却遮罩的呈现状态
type overlayEntry struct {
	fill    float64
	visible bool
}

// FrameSink 记录推送来的预览标记和遮罩状态，供前端每帧绘制时读取
type FrameSink struct {
	tags     map[types.Cell]components.PreviewTag
	overlays map[ecs.EntityID]overlayEntry
}

// NewFrameSink 创建空的 FrameSink
func NewFrameSink() *FrameSink {
	return &FrameSink{
		tags:     make(map[types.Cell]components.PreviewTag),
		overlays: make(map[ecs.EntityID]overlayEntry),
	}
}

func (s *FrameSink) TagCell(cell types.Cell, tag components.PreviewTag) {
	s.tags[cell] = tag
}

func (s *FrameSink) UntagCell(cell types.Cell) {
	delete(s.tags, cell)
}

func (s *FrameSink) SetFillProgress(item ecs.EntityID, fill01 float64) {
	o := s.overlays[item]
	o.fill = fill01
	s.overlays[item] = o
}

func (s *FrameSink) SetVisible(item ecs.EntityID, visible bool) {
	o := s.overlays[item]
	o.visible = visible
	s.overlays[item] = o
}

// Tag 格子的预览标记
func (s *FrameSink) Tag(cell types.Cell) components.PreviewTag {
	if t, ok := s.tags[cell]; ok {
		return t
	}
	return components.PreviewNone
}

// TaggedCount 当前带预览标记的格子数
func (s *FrameSink) TaggedCount() int {
	return len(s.tags)
}

// Overlay 物品的遮罩填充比例，遮罩隐藏时返回 false
func (s *FrameSink) Overlay(item ecs.EntityID) (float64, bool) {
	o, ok := s.overlays[item]
	if !ok || !o.visible {
		return 0, false
	}
	return o.fill, true
}

// Forget 丢弃已销毁物品的遮罩状态
func (s *FrameSink) Forget(alive func(ecs.EntityID) bool) {
	for id := range s.overlays {
		if !alive(id) {
			delete(s.overlays, id)
		}
	}
}
