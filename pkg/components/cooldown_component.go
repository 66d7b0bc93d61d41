package components

// MinCooldownSeconds 物品冷却时间下限（秒）
const MinCooldownSeconds = 0.05

// CooldownComponent 放置物品的冷却生命周期状态
// 与 ReadinessTimerComponent 配合使用
type CooldownComponent struct {
	// Seconds 每轮冷却时长，>= MinCooldownSeconds
	Seconds float64

	// HasStartedOnce 首次真正启动后置位，只在回到队列时清除
	// 决定再次放下时是继续还是从 0 开始
	HasStartedOnce bool

	// Loops 已完成的就绪次数
	Loops int

	// ReadyListener 计时器完成回调的订阅 ID，0 表示尚未订阅
	ReadyListener int
}
