package term

import (
	"math"

	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/types"
)

// 终端坐标约定
//
// 库存以"虚拟像素"工作：一个字符宽 1 个虚拟像素、高 2 个虚拟像素，
// 这样正方形格子在终端中看起来也接近正方形。
const (
	charHeight = 2.0

	termCellSize = 4.0
	termSpacing  = 2.0
	termPadding  = 2.0
	termQueueGap = 4.0
)

// Layout 把布局换算到终端尺度
// 行列数和每批数量保持不变，只替换像素相关的字段
func Layout(base config.GridLayout) config.GridLayout {
	l := base
	l.CellSize = termCellSize
	l.Spacing = termSpacing
	l.PaddingLeft = termPadding
	l.PaddingTop = termPadding
	l.QueueGap = termQueueGap
	return l
}

// CharToVirtual 字符中心的虚拟像素坐标
func CharToVirtual(col, row int) types.Vec2 {
	return types.Vec2{X: float64(col) + 0.5, Y: float64(row)*charHeight + charHeight/2}
}

// VirtualToChar 虚拟像素所在的字符
func VirtualToChar(p types.Vec2) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / charHeight))
}

// charRect 覆盖虚拟像素矩形的字符范围 [c0, c1) x [r0, r1)
func charRect(topLeft, size types.Vec2) (c0, r0, c1, r1 int) {
	c0 = int(math.Floor(topLeft.X))
	r0 = int(math.Floor(topLeft.Y / charHeight))
	c1 = int(math.Ceil(topLeft.X + size.X))
	r1 = int(math.Ceil((topLeft.Y + size.Y) / charHeight))
	return c0, r0, c1, r1
}
