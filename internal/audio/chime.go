// Package audio 提供冷却就绪提示音
//
// 提示音由正弦波合成，不依赖任何音频文件。
package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// 提示音参数
const (
	SampleRate = beep.SampleRate(44100)

	// chimeBaseFreq 第一个音（A5）
	chimeBaseFreq = 880.0
	// chimeInterval 第二个音相对第一个音的频率比（纯五度）
	chimeInterval = 1.5
	// chimeNoteDuration 每个音的长度
	chimeNoteDuration = 90 * time.Millisecond
	// chimeLoopStep 每轮循环升高的频率比例，封顶 chimeMaxLoopStep 轮
	chimeLoopStep    = 0.03
	chimeMaxLoopStep = 8
	// chimeMaxVoices 同时播放的提示音上限，超出时丢弃
	chimeMaxVoices = 4
)

// ChimePlayer 冷却就绪提示音播放器
//
// Init 失败时（没有音频设备）Play 为无操作，不影响游戏运行。
// 所有方法可以从任意 goroutine 调用。
type ChimePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
}

// NewChimePlayer 创建播放器
//
// 参数:
//   - volume: 音量 0.0 ~ 1.0
//   - enabled: 是否启用
func NewChimePlayer(volume float64, enabled bool) *ChimePlayer {
	return &ChimePlayer{
		mixer:   &beep.Mixer{},
		volume:  clamp01(volume),
		enabled: enabled,
	}
}

// Init 初始化扬声器
func (p *ChimePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	log.Printf("[ChimePlayer] Speaker initialized at %d Hz", SampleRate)
	return nil
}

// Close 停止所有提示音并关闭扬声器
func (p *ChimePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// SetVolume 设置音量，限制在 0.0 ~ 1.0
func (p *ChimePlayer) SetVolume(volume float64) {
	p.mu.Lock()
	p.volume = clamp01(volume)
	p.mu.Unlock()
}

// SetEnabled 开关提示音
func (p *ChimePlayer) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

// Enabled 提示音是否启用
func (p *ChimePlayer) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play 播放一次提示音
//
// 参数:
//   - loop: 物品的冷却轮次，轮次越高音调越高
//
// 返回:
//   - bool: 是否真正加入了混音器
func (p *ChimePlayer) Play(loop int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.enabled || p.volume <= 0 {
		return false
	}

	streamer, err := ChimeStreamer(SampleRate, p.volume, loop)
	if err != nil {
		log.Printf("[ChimePlayer] Failed to build chime: %v", err)
		return false
	}

	speaker.Lock()
	defer speaker.Unlock()
	if p.mixer.Len() >= chimeMaxVoices {
		return false
	}
	p.mixer.Add(streamer)
	return true
}

// ChimeStreamer 合成一次两音提示音
//
// 参数:
//   - rate: 采样率
//   - volume: 音量 0.0 ~ 1.0
//   - loop: 冷却轮次（>= 1），决定音高
//
// 返回:
//   - beep.Streamer: 有限长度的音频流
//   - error: 频率超出采样率允许范围
func ChimeStreamer(rate beep.SampleRate, volume float64, loop int) (beep.Streamer, error) {
	freq := ChimeFrequency(loop)

	first, err := chimeNote(rate, freq)
	if err != nil {
		return nil, err
	}
	second, err := chimeNote(rate, freq*chimeInterval)
	if err != nil {
		return nil, err
	}

	return newVolume(beep.Seq(first, second), volume), nil
}

// ChimeFrequency 第 loop 轮的基础频率
func ChimeFrequency(loop int) float64 {
	step := loop - 1
	if step < 0 {
		step = 0
	}
	if step > chimeMaxLoopStep {
		step = chimeMaxLoopStep
	}
	return chimeBaseFreq * (1 + chimeLoopStep*float64(step))
}

func chimeNote(rate beep.SampleRate, freq float64) (beep.Streamer, error) {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	n := rate.N(chimeNoteDuration)
	return &decayEnvelope{streamer: beep.Take(n, tone), total: n}, nil
}

// decayEnvelope 短起音 + 指数衰减
type decayEnvelope struct {
	streamer beep.Streamer
	position int
	total    int
}

func (e *decayEnvelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	attack := e.total / 20
	for i := 0; i < n; i++ {
		vol := math.Exp(-4 * float64(e.position) / float64(e.total))
		if attack > 0 && e.position < attack {
			vol *= float64(e.position) / float64(attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *decayEnvelope) Err() error { return e.streamer.Err() }

// newVolume 线性音量转换为 effects.Volume
// math.Log2(0) 为 -Inf，音量为 0 时直接静音
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
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
