package components

// CooldownOverlayComponent 冷却遮罩的最近一次呈现状态
// 遮罩填充从 1 递减到 0；空闲时隐藏
type CooldownOverlayComponent struct {
	Fill    float64
	Visible bool

	// Synced 是否已经向可视化接收器推送过状态
	Synced bool

	// Progress 计时器最近一次通知的进度
	Progress float64
	// ProgressListener 进度回调的订阅 ID，0 表示尚未订阅
	ProgressListener int
}
