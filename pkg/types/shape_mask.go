package types

// Bounds 形状的包围盒（格子单位）
type Bounds struct {
	MinX   int
	MinY   int
	Width  int
	Height int
}

// ShapeMask 物品占用格子的不可变描述
//
// 偏移量相对于包围盒左上角锚点，构造时平移到 (0,0)，因此 Bounds().MinX/MinY 恒为 0。
// 同一物品类型的所有实例共享同一个 ShapeMask，构造后不可修改。
type ShapeMask struct {
	cells  []Cell
	bounds Bounds
	rect   bool
}

// singleCell 未指定形状时退化成的单格形状
var singleCell = NewShapeMask(nil)

// SingleCellShape 返回单格 (0,0) 形状
func SingleCellShape() *ShapeMask {
	return singleCell
}

// NewShapeMask 根据偏移量列表创建形状
//
// 参数:
//   - offsets: 占用格子偏移量，顺序即形状顺序（抓取点选择时的平局顺序）
//
// 返回:
//   - *ShapeMask: 去重并平移到包围盒原点的形状；空列表退化为单格 (0,0)
func NewShapeMask(offsets []Cell) *ShapeMask {
	s := &ShapeMask{}

	seen := make(map[Cell]struct{}, len(offsets))
	for _, c := range offsets {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		s.cells = append(s.cells, c)
	}

	if len(s.cells) == 0 {
		s.cells = []Cell{{X: 0, Y: 0}}
	}

	minX, minY := s.cells[0].X, s.cells[0].Y
	maxX, maxY := minX, minY
	for _, c := range s.cells[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	for i := range s.cells {
		s.cells[i] = Cell{X: s.cells[i].X - minX, Y: s.cells[i].Y - minY}
	}
	s.bounds = Bounds{Width: maxX - minX + 1, Height: maxY - minY + 1}
	s.rect = len(s.cells) == s.bounds.Width*s.bounds.Height

	return s
}

// RectShape 创建 w x h 的矩形形状
func RectShape(w, h int) *ShapeMask {
	cells := make([]Cell, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return NewShapeMask(cells)
}

// Cells 返回偏移量副本（形状顺序）
func (s *ShapeMask) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// Len 占用格子数量
func (s *ShapeMask) Len() int {
	return len(s.cells)
}

// Bounds 缓存的包围盒
func (s *ShapeMask) Bounds() Bounds {
	return s.bounds
}

// IsRectangular 形状是否完整填满包围盒
func (s *ShapeMask) IsRectangular() bool {
	return s.rect
}

// Contains 检查偏移量是否属于形状
func (s *ShapeMask) Contains(offset Cell) bool {
	for _, c := range s.cells {
		if c == offset {
			return true
		}
	}
	return false
}

// Translate 返回锚定在 start 时的目标格子（形状顺序）
func (s *ShapeMask) Translate(start Cell) []Cell {
	out := make([]Cell, len(s.cells))
	for i, c := range s.cells {
		out[i] = start.Add(c)
	}
	return out
}

// OrDefault nil 形状退化为单格形状
func (s *ShapeMask) OrDefault() *ShapeMask {
	if s == nil {
		return singleCell
	}
	return s
}
