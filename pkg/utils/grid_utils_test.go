package utils

import (
	"testing"

	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/types"
)

// testLayout 4x3 网格，格子 10 像素，间距 2 像素，内边距 5 像素
func testLayout() config.GridLayout {
	return config.GridLayout{
		Columns:     4,
		Rows:        3,
		CellSize:    10,
		Spacing:     2,
		PaddingLeft: 5,
		PaddingTop:  5,
		QueueGap:    20,
		SpawnCount:  3,
	}
}

// TestScreenToCell 测试屏幕坐标到格子的转换
func TestScreenToCell(t *testing.T) {
	layout := testLayout()
	origin := types.Vec2{X: 100, Y: 50}

	tests := []struct {
		name    string
		p       types.Vec2
		want    types.Cell
		wantHit bool
	}{
		{"第一个格子左上角", types.Vec2{X: 105, Y: 55}, types.Cell{X: 0, Y: 0}, true},
		{"第一个格子右下边缘仍然命中", types.Vec2{X: 115, Y: 65}, types.Cell{X: 0, Y: 0}, true},
		{"水平间隙被拒绝", types.Vec2{X: 116, Y: 55}, types.Cell{}, false},
		{"垂直间隙被拒绝", types.Vec2{X: 105, Y: 66}, types.Cell{}, false},
		{"中间格子", types.Vec2{X: 130, Y: 70}, types.Cell{X: 2, Y: 1}, true},
		{"最后一个格子", types.Vec2{X: 141, Y: 79}, types.Cell{X: 3, Y: 2}, true},
		{"内边距区域", types.Vec2{X: 102, Y: 55}, types.Cell{}, false},
		{"网格右侧之外", types.Vec2{X: 160, Y: 55}, types.Cell{}, false},
		{"网格下方之外", types.Vec2{X: 105, Y: 100}, types.Cell{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := ScreenToCell(tt.p, origin, layout)
			if hit != tt.wantHit {
				t.Fatalf("hit: got %v, want %v", hit, tt.wantHit)
			}
			if hit && got != tt.want {
				t.Errorf("cell: got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCellAnchoredPositionRoundTrip 格子左上角坐标应能解析回同一个格子
func TestCellAnchoredPositionRoundTrip(t *testing.T) {
	layout := testLayout()
	resolver := &GridCellResolver{Layout: layout, Origin: types.Vec2{X: 30, Y: 40}, CameraX: 7, CameraY: -3}

	for y := 0; y < layout.Rows; y++ {
		for x := 0; x < layout.Columns; x++ {
			cell := types.Cell{X: x, Y: y}
			p := resolver.CellToScreen(cell)
			got, ok := resolver.ResolveScreenToCell(p)
			if !ok || got != cell {
				t.Errorf("cell %v: resolved %v (ok=%v) from %+v", cell, got, ok, p)
			}
		}
	}
}

func TestGridPixelSize(t *testing.T) {
	got := GridPixelSize(testLayout())
	// 4*10 + 3*2 + 2*5 = 56, 3*10 + 2*2 + 2*5 = 44
	want := types.Vec2{X: 56, Y: 44}
	if got != want {
		t.Errorf("GridPixelSize: got %+v, want %+v", got, want)
	}
}

func TestItemPixelSize(t *testing.T) {
	layout := config.DefaultGridLayout()
	got := ItemPixelSize(types.Bounds{Width: 2, Height: 3}, layout)
	want := types.Vec2{X: 2*64 + 6, Y: 3*64 + 2*6}
	if got != want {
		t.Errorf("ItemPixelSize: got %+v, want %+v", got, want)
	}
	if z := ItemPixelSize(types.Bounds{}, layout); z != (types.Vec2{}) {
		t.Errorf("empty bounds should be zero size, got %+v", z)
	}
}

// TestLocalToCellIndex 测试物品内部坐标换算（夹紧到包围盒）
func TestLocalToCellIndex(t *testing.T) {
	layout := testLayout() // step = 12
	bounds := types.Bounds{Width: 2, Height: 2}

	tests := []struct {
		name  string
		local types.Vec2
		want  types.Cell
	}{
		{"左上", types.Vec2{X: 1, Y: 1}, types.Cell{X: 0, Y: 0}},
		{"右下", types.Vec2{X: 13, Y: 20}, types.Cell{X: 1, Y: 1}},
		{"超出右下被夹紧", types.Vec2{X: 100, Y: 100}, types.Cell{X: 1, Y: 1}},
		{"负坐标被夹紧", types.Vec2{X: -5, Y: -1}, types.Cell{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LocalToCellIndex(tt.local, bounds, layout)
			if !ok || got != tt.want {
				t.Errorf("got %v (ok=%v), want %v", got, ok, tt.want)
			}
		})
	}

	if _, ok := LocalToCellIndex(types.Vec2{}, bounds, config.GridLayout{}); ok {
		t.Error("zero step should fail")
	}
}

func TestNilResolver(t *testing.T) {
	var r *GridCellResolver
	if _, ok := r.ResolveScreenToCell(types.Vec2{}); ok {
		t.Error("nil resolver should never resolve")
	}
}
