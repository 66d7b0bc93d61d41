package utils

// 缓动函数
//
// 所有函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 参考：https://easings.net/

// EaseOutQuad 二次方缓出
// 特点：开始较快，结束慢
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad 二次方缓入
// 特点：开始慢，结束较快
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// PulseScale 就绪脉冲在 elapsed 时刻的缩放倍率
//
// 前一半时长以 EaseOutQuad 从 1 放大到 peak，
// 后一半以 EaseInQuad 从 peak 还原到 1。
//
// 参数:
//   - elapsed: 已播放时间（秒）
//   - duration: 脉冲总时长（秒）
//   - peak: 峰值倍率
//
// 返回:
//   - float64: 缩放倍率；超出 [0, duration] 时为 1
func PulseScale(elapsed, duration, peak float64) float64 {
	if duration <= 0 || elapsed <= 0 || elapsed >= duration {
		return 1
	}
	up := duration * 0.5
	if elapsed < up {
		return Lerp(1, peak, EaseOutQuad(elapsed/up))
	}
	down := duration - up
	return Lerp(peak, 1, EaseInQuad((elapsed-up)/down))
}
