package app

import (
	"testing"
)

func TestDragManagerInitialState(t *testing.T) {
	dm := NewDragManager()

	if dm.GetState() != DragStateNone {
		t.Errorf("Expected initial state to be DragStateNone, got %v", dm.GetState())
	}
	if dm.IsDragging() || dm.JustStarted() || dm.JustEnded() {
		t.Error("fresh manager should report no drag activity")
	}
	if dm.GetInfo().TouchID != -1 {
		t.Errorf("TouchID: got %d, want -1", dm.GetInfo().TouchID)
	}
}

// TestDragManagerMouseSequence 鼠标按下-移动-释放
func TestDragManagerMouseSequence(t *testing.T) {
	dm := NewDragManager()

	steps := []struct {
		name   string
		sample PointerSample
		want   DragState
		x, y   int
	}{
		{"未按下保持空闲", PointerSample{X: 5, Y: 5, TouchID: -1}, DragStateNone, 0, 0},
		{"按下开始拖拽", PointerSample{JustPressed: true, Pressed: true, X: 10, Y: 20, TouchID: -1}, DragStateStarted, 10, 20},
		{"按住移动", PointerSample{Pressed: true, X: 15, Y: 25, TouchID: -1}, DragStateDragging, 15, 25},
		{"继续移动", PointerSample{Pressed: true, X: 40, Y: 30, TouchID: -1}, DragStateDragging, 40, 30},
		{"释放时记录释放位置", PointerSample{X: 42, Y: 31, TouchID: -1}, DragStateEnded, 42, 31},
		{"结束只持续一帧", PointerSample{X: 50, Y: 50, TouchID: -1}, DragStateNone, 0, 0},
	}

	for _, st := range steps {
		dm.Apply(st.sample)
		if dm.GetState() != st.want {
			t.Fatalf("%s: state %v, want %v", st.name, dm.GetState(), st.want)
		}
		if x, y := dm.Position(); x != st.x || y != st.y {
			t.Errorf("%s: position (%d,%d), want (%d,%d)", st.name, x, y, st.x, st.y)
		}
	}
}

// TestDragManagerTouchReleaseKeepsLastPosition 触摸释放没有坐标
func TestDragManagerTouchReleaseKeepsLastPosition(t *testing.T) {
	dm := NewDragManager()
	dm.Apply(PointerSample{JustPressed: true, Pressed: true, X: 1, Y: 2, TouchID: 7, IsTouch: true})
	dm.Apply(PointerSample{Pressed: true, X: 30, Y: 40, TouchID: 7, IsTouch: true})
	dm.Apply(PointerSample{TouchID: 7, IsTouch: true})

	if !dm.JustEnded() {
		t.Fatalf("expected Ended, got %v", dm.GetState())
	}
	info := dm.GetInfo()
	if !info.IsTouchInput || info.TouchID != 7 {
		t.Errorf("touch tracking lost: %+v", info)
	}
	if x, y := dm.Position(); x != 30 || y != 40 {
		t.Errorf("release position (%d,%d), want (30,40)", x, y)
	}
	if dx, dy := dm.GetDragDistance(); dx != 29 || dy != 38 {
		t.Errorf("drag distance (%d,%d), want (29,38)", dx, dy)
	}
}

// TestDragManagerClickReleasedImmediately 同一帧之后立即释放
func TestDragManagerClickReleasedImmediately(t *testing.T) {
	dm := NewDragManager()
	dm.Apply(PointerSample{JustPressed: true, Pressed: true, X: 3, Y: 3, TouchID: -1})
	dm.Apply(PointerSample{X: 3, Y: 3, TouchID: -1})
	if !dm.JustEnded() {
		t.Errorf("click should end right after start, got %v", dm.GetState())
	}
}

func TestDragManagerReset(t *testing.T) {
	dm := NewDragManager()
	dm.Apply(PointerSample{JustPressed: true, Pressed: true, X: 100, Y: 200, TouchID: -1})
	dm.Reset()

	info := dm.GetInfo()
	if info.State != DragStateNone || info.StartX != 0 || info.CurrentY != 0 || info.TouchID != -1 {
		t.Errorf("Reset should clear all fields, got %+v", info)
	}
}

func TestDragStateString(t *testing.T) {
	if DragStateDragging.String() != "Dragging" || DragState(99).String() != "None" {
		t.Error("unexpected DragState names")
	}
}
