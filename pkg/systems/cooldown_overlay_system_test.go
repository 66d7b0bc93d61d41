package systems

import (
	"math"
	"testing"

	"github.com/decker502/idlegrid/pkg/components"
)

func TestOverlayState(t *testing.T) {
	idle := components.NewReadinessTimerComponent(1)
	running := components.NewReadinessTimerComponent(1)
	running.StartOrResume()
	running.Advance(0.25)

	tests := []struct {
		name        string
		timer       *components.ReadinessTimerComponent
		wantFill    float64
		wantVisible bool
	}{
		{"空闲时隐藏", idle, 0, false},
		{"运行中显示剩余比例", running, 0.75, true},
		{"nil 计时器", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fill, visible := OverlayState(tt.timer)
			if math.Abs(fill-tt.wantFill) > 1e-9 || visible != tt.wantVisible {
				t.Errorf("got (%v, %v), want (%v, %v)", fill, visible, tt.wantFill, tt.wantVisible)
			}
		})
	}
}

// TestCooldownOverlaySystemNotifiesOnChange 只有状态变化时才通知接收器
func TestCooldownOverlaySystemNotifiesOnChange(t *testing.T) {
	w := newTestWorld(t, false)
	overlay := NewCooldownOverlaySystem(w.em, w.sink)
	id := w.newItem(t, defSingle, components.LocationDetached)

	overlay.Update(0)
	overlay.Update(0)
	if len(w.sink.fills[id]) != 1 || w.sink.visible[id][0] {
		t.Fatalf("idle item should be synced once as hidden, fills=%v visible=%v", w.sink.fills[id], w.sink.visible[id])
	}

	w.cooldown.Start(id)
	overlay.Update(0)
	w.cooldown.Update(0.5)
	overlay.Update(0.5)
	overlay.Update(0)

	fills := w.sink.fills[id]
	want := []float64{0, 1, 0.5}
	if len(fills) != len(want) {
		t.Fatalf("fills %v, want %v", fills, want)
	}
	for i := range want {
		if math.Abs(fills[i]-want[i]) > 1e-9 {
			t.Errorf("fill[%d] = %v, want %v", i, fills[i], want[i])
		}
	}
	if v := w.sink.visible[id]; !v[len(v)-1] {
		t.Error("running overlay should be visible")
	}

	w.cooldown.ResetToQueue(id)
	overlay.Update(0)
	if v := w.sink.visible[id]; v[len(v)-1] {
		t.Error("reset overlay should be hidden")
	}

	// 替换接收器后重新同步
	fresh := newRecordingSink()
	overlay.SetVisualSink(fresh)
	overlay.Update(0)
	if len(fresh.fills[id]) != 1 {
		t.Errorf("new sink should receive a full resync, got %v", fresh.fills[id])
	}
}

// TestCooldownOverlayFollowsTimerProgress 遮罩填充来自计时器的进度通知
func TestCooldownOverlayFollowsTimerProgress(t *testing.T) {
	w := newTestWorld(t, false)
	overlay := NewCooldownOverlaySystem(w.em, w.sink)
	id := w.newItem(t, defSingle, components.LocationDetached)

	timer := w.timer(t, id)
	timer.StartOrResume()
	timer.Advance(0.25)

	// 订阅前的进度直接读取
	overlay.Update(0)
	if fills := w.sink.fills[id]; len(fills) != 1 || math.Abs(fills[0]-0.75) > 1e-9 {
		t.Fatalf("fills %v, want [0.75]", fills)
	}

	timer.Advance(0.5)
	overlay.Update(0)
	fills := w.sink.fills[id]
	if len(fills) != 2 || math.Abs(fills[1]-0.25) > 1e-9 {
		t.Errorf("fills %v, want [0.75 0.25]", fills)
	}

	timer.Reset()
	overlay.Update(0)
	if v := w.sink.visible[id]; v[len(v)-1] {
		t.Error("reset timer should hide the overlay")
	}
}
