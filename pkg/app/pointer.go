package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DragState 指针拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下，只持续一帧）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（刚释放，只持续一帧）
	DragStateEnded
)

func (s DragState) String() string {
	switch s {
	case DragStateStarted:
		return "Started"
	case DragStateDragging:
		return "Dragging"
	case DragStateEnded:
		return "Ended"
	default:
		return "None"
	}
}

// DragInfo 拖拽信息
type DragInfo struct {
	State DragState
	// StartX, StartY 拖拽起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置；触摸释放后保留最后一次触摸位置
	CurrentX, CurrentY int
	// TouchID 当前跟踪的触摸ID（-1 表示鼠标）
	TouchID      ebiten.TouchID
	IsTouchInput bool
}

// PointerSample 一帧的指针采样
type PointerSample struct {
	JustPressed bool
	Pressed     bool
	X, Y        int
	TouchID     ebiten.TouchID
	IsTouch     bool
}

// DragManager 跟踪鼠标/触摸的拖拽状态
// 一次只跟踪一个指针：拖拽期间忽略其他触摸
type DragManager struct {
	info DragInfo
}

// NewDragManager 创建拖拽管理器
func NewDragManager() *DragManager {
	dm := &DragManager{}
	dm.Reset()
	return dm
}

// Update 采样 ebiten 输入并推进状态（每帧调用一次）
func (dm *DragManager) Update() {
	dm.Apply(SamplePointer(dm.info))
}

// Apply 用一帧的采样推进状态机
//
// None -> Started（按下）-> Dragging（按住）-> Ended（释放）-> None
func (dm *DragManager) Apply(s PointerSample) {
	switch dm.info.State {
	case DragStateNone:
		if s.JustPressed {
			dm.info = DragInfo{
				State:        DragStateStarted,
				StartX:       s.X,
				StartY:       s.Y,
				CurrentX:     s.X,
				CurrentY:     s.Y,
				TouchID:      s.TouchID,
				IsTouchInput: s.IsTouch,
			}
		}

	case DragStateStarted, DragStateDragging:
		if !s.Pressed {
			dm.info.State = DragStateEnded
			// 触摸释放时没有位置，保留最后一次位置
			if !dm.info.IsTouchInput {
				dm.info.CurrentX, dm.info.CurrentY = s.X, s.Y
			}
			return
		}
		dm.info.State = DragStateDragging
		dm.info.CurrentX, dm.info.CurrentY = s.X, s.Y

	case DragStateEnded:
		// 结束状态只持续一帧
		dm.Reset()
	}
}

// SamplePointer 读取 ebiten 的鼠标和触摸输入
// 未拖拽时优先检测新的触摸；拖拽中只读取正在跟踪的指针
func SamplePointer(tracking DragInfo) PointerSample {
	if tracking.State == DragStateNone || tracking.State == DragStateEnded {
		if touchIDs := inpututil.AppendJustPressedTouchIDs(nil); len(touchIDs) > 0 {
			x, y := ebiten.TouchPosition(touchIDs[0])
			return PointerSample{JustPressed: true, Pressed: true, X: x, Y: y, TouchID: touchIDs[0], IsTouch: true}
		}
		x, y := ebiten.CursorPosition()
		pressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
		return PointerSample{JustPressed: pressed, Pressed: pressed, X: x, Y: y, TouchID: -1}
	}

	if tracking.IsTouchInput {
		for _, id := range ebiten.AppendTouchIDs(nil) {
			if id == tracking.TouchID {
				x, y := ebiten.TouchPosition(id)
				return PointerSample{Pressed: true, X: x, Y: y, TouchID: id, IsTouch: true}
			}
		}
		return PointerSample{TouchID: tracking.TouchID, IsTouch: true}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), X: x, Y: y, TouchID: -1}
}

// Reset 重置拖拽状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{
		State:   DragStateNone,
		TouchID: -1,
	}
}

// GetState 获取当前拖拽状态
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// GetInfo 获取完整拖拽信息
func (dm *DragManager) GetInfo() DragInfo {
	return dm.info
}

// Position 当前指针位置
func (dm *DragManager) Position() (int, int) {
	return dm.info.CurrentX, dm.info.CurrentY
}

// IsDragging 是否正在拖拽
func (dm *DragManager) IsDragging() bool {
	return dm.info.State == DragStateDragging
}

// JustStarted 是否刚开始拖拽（本帧）
func (dm *DragManager) JustStarted() bool {
	return dm.info.State == DragStateStarted
}

// JustEnded 是否刚结束拖拽（本帧）
func (dm *DragManager) JustEnded() bool {
	return dm.info.State == DragStateEnded
}

// GetDragDistance 获取拖拽距离（从起点到当前位置）
func (dm *DragManager) GetDragDistance() (dx, dy int) {
	return dm.info.CurrentX - dm.info.StartX, dm.info.CurrentY - dm.info.StartY
}
