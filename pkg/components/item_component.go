package components

import (
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/types"
)

// ItemLocation 物品当前所在的容器
type ItemLocation int

const (
	// LocationDetached 未挂到任何容器（刚创建或已销毁）
	LocationDetached ItemLocation = iota
	// LocationQueue 位于物品队列中
	LocationQueue
	// LocationGrid 已放置在网格上
	LocationGrid
	// LocationDragging 正在被拖拽（位于拖拽层）
	LocationDragging
)

func (l ItemLocation) String() string {
	switch l {
	case LocationQueue:
		return "queue"
	case LocationGrid:
		return "grid"
	case LocationDragging:
		return "dragging"
	default:
		return "detached"
	}
}

// ItemComponent 可放置物品
//
// 实体 ID 即物品身份。Shape 与 Definition 共享，不可修改；
// Anchor 只在 IsOnGrid 为 true 时有意义。
type ItemComponent struct {
	Definition *config.ItemDefinition
	Shape      *types.ShapeMask

	// Anchor 放置时包围盒左上角所在的格子
	Anchor   types.Cell
	IsOnGrid bool

	Location ItemLocation

	// IsQueueItem 物品来自队列且尚未被计为消耗
	IsQueueItem bool

	// QueueX 队列布局中的水平偏移（像素）
	QueueX float64
}

// ShapeOrDefault 返回物品形状，缺省时为单格
func (c *ItemComponent) ShapeOrDefault() *types.ShapeMask {
	if c == nil {
		return types.SingleCellShape()
	}
	if c.Shape != nil {
		return c.Shape
	}
	if c.Definition != nil {
		return c.Definition.ShapeMask()
	}
	return types.SingleCellShape()
}
