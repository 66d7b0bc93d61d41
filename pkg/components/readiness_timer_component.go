package components

import "math"

// MinTimerDuration 计时器时长下限（秒）
const MinTimerDuration = 0.01

// TimerListener 计时器观察者
// 任一回调可以为 nil
type TimerListener struct {
	Progress  func(progress01 float64)
	Completed func()
}

type timerSubscription struct {
	id       int
	listener TimerListener
}

// ReadinessTimerComponent 可暂停的就绪计时器
//
// 状态:
//   - 空闲: !IsRunning()，消费者显示为 0
//   - 运行: IsRunning() && !IsPaused()，Advance 累积时间
//   - 暂停: IsRunning() && IsPaused()，Advance 不累积
type ReadinessTimerComponent struct {
	duration float64
	elapsed  float64
	running  bool
	paused   bool

	nextID    int
	listeners []timerSubscription
}

// NewReadinessTimerComponent 创建已配置好时长的空闲计时器
func NewReadinessTimerComponent(duration float64) *ReadinessTimerComponent {
	t := &ReadinessTimerComponent{}
	t.Configure(duration)
	return t
}

// Duration 时长（秒）
func (t *ReadinessTimerComponent) Duration() float64 { return t.duration }

// Elapsed 已累积时间（秒），范围 [0, Duration]
func (t *ReadinessTimerComponent) Elapsed() float64 { return t.elapsed }

// IsRunning 是否处于运行（含暂停）状态
func (t *ReadinessTimerComponent) IsRunning() bool { return t.running }

// IsPaused 是否暂停
func (t *ReadinessTimerComponent) IsPaused() bool { return t.paused }

// Progress01 返回 clamp(elapsed/duration, 0, 1)
func (t *ReadinessTimerComponent) Progress01() float64 {
	if t.duration <= 0 {
		return 0
	}
	return clamp01(t.elapsed / t.duration)
}

// Configure 设置时长（下限 MinTimerDuration）并重置
func (t *ReadinessTimerComponent) Configure(duration float64) {
	t.duration = math.Max(MinTimerDuration, duration)
	t.Reset()
}

// StartOrResume 开始或从暂停处继续；未配置时长时无操作
func (t *ReadinessTimerComponent) StartOrResume() {
	if t.duration <= 0 {
		return
	}
	t.running = true
	t.paused = false
}

// Pause 暂停；只在运行状态下生效
func (t *ReadinessTimerComponent) Pause() {
	if !t.running {
		return
	}
	t.paused = true
}

// Reset 回到空闲状态并通知进度 0
func (t *ReadinessTimerComponent) Reset() {
	t.elapsed = 0
	t.running = false
	t.paused = false
	t.emitProgress(0)
}

// Advance 推进 dt 秒
//
// 返回:
//   - bool: 本次推进是否完成计时（完成后计时器停止，需要重新启动）
func (t *ReadinessTimerComponent) Advance(dt float64) bool {
	if !t.running || t.paused {
		return false
	}
	if dt > 0 {
		t.elapsed += dt
	}
	if t.elapsed > t.duration {
		t.elapsed = t.duration
	}

	progress := t.Progress01()
	t.emitProgress(progress)

	if progress >= 1 {
		t.running = false
		t.emitCompleted()
		return true
	}
	return false
}

// Subscribe 注册观察者，返回用于取消订阅的 ID
func (t *ReadinessTimerComponent) Subscribe(l TimerListener) int {
	t.nextID++
	t.listeners = append(t.listeners, timerSubscription{id: t.nextID, listener: l})
	return t.nextID
}

// Unsubscribe 取消订阅；未知 ID 为无操作
func (t *ReadinessTimerComponent) Unsubscribe(id int) {
	for i, s := range t.listeners {
		if s.id == id {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

func (t *ReadinessTimerComponent) emitProgress(p float64) {
	for _, s := range t.snapshot() {
		if s.listener.Progress != nil {
			s.listener.Progress(p)
		}
	}
}

func (t *ReadinessTimerComponent) emitCompleted() {
	for _, s := range t.snapshot() {
		if s.listener.Completed != nil {
			s.listener.Completed()
		}
	}
}

func (t *ReadinessTimerComponent) snapshot() []timerSubscription {
	if len(t.listeners) == 0 {
		return nil
	}
	out := make([]timerSubscription, len(t.listeners))
	copy(out, t.listeners)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
