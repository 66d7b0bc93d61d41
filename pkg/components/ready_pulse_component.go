package components

// 就绪脉冲默认参数
const (
	DefaultPulsePeak     = 1.10
	DefaultPulseDuration = 0.18
)

// ReadyPulseComponent 冷却就绪时的缩放脉冲
// 前端绘制物品时把 Scale 叠加到物品尺寸上（1.0 = 原始大小）
type ReadyPulseComponent struct {
	// Peak 峰值缩放倍率（>= 1）
	Peak float64
	// Duration 脉冲总时长（秒），前一半放大，后一半还原
	Duration float64

	Elapsed float64
	Active  bool
	Scale   float64
}

// NewReadyPulseComponent 使用默认参数创建静止的脉冲组件
func NewReadyPulseComponent() *ReadyPulseComponent {
	return &ReadyPulseComponent{
		Peak:     DefaultPulsePeak,
		Duration: DefaultPulseDuration,
		Scale:    1,
	}
}
