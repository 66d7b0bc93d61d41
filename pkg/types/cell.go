package types

import "fmt"

// Cell 网格格子坐标（列, 行），原点在左上角
type Cell struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Add 返回两个格子坐标之和
func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub 返回 c - o
func (c Cell) Sub(o Cell) Cell {
	return Cell{X: c.X - o.X, Y: c.Y - o.Y}
}

// ManhattanDistance 返回两个格子之间的曼哈顿距离
func (c Cell) ManhattanDistance(o Cell) int {
	dx := c.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Vec2 屏幕/局部像素坐标
type Vec2 struct {
	X float64
	Y float64
}
