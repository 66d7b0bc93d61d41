package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// InventorySettings 前端用户设置
// 与网格状态无关，网格状态不持久化
type InventorySettings struct {
	// 音频设置
	ChimeEnabled bool    `yaml:"chimeEnabled"` // 冷却就绪提示音
	ChimeVolume  float64 `yaml:"chimeVolume"`  // 提示音音量 0.0 ~ 1.0

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
	ShowGuides bool `yaml:"showGuides"` // 是否显示格子坐标和队列计数

	// SpawnCountOverride 覆盖布局文件中的每批物品数量，0 表示不覆盖
	SpawnCountOverride int `yaml:"spawnCountOverride"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *InventorySettings {
	return &InventorySettings{
		ChimeEnabled: true,
		ChimeVolume:  0.6,
		Fullscreen:   false,
		ShowGuides:   true,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager     // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *InventorySettings // 当前设置
}

// DefaultAppName gdata 存储名称
const DefaultAppName = "idlegrid"

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "inventory"
)

// OpenSettingsManager 打开应用的 gdata 存储并加载设置
// gdata 不可用时退化为仅内存设置
func OpenSettingsManager(appName string) *SettingsManager {
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	sm, _ := NewSettingsManager(gdataManager)
	return sm
}

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方的错误返回，加载失败只记录日志
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm, nil
}

// IsPersistent 设置是否能够持久化
func (sm *SettingsManager) IsPersistent() bool {
	return sm.gdataManager != nil
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或没有保存过设置时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 缺省字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.ChimeVolume = clampVolume(loaded.ChimeVolume)
	if loaded.SpawnCountOverride < 0 {
		loaded.SpawnCountOverride = 0
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// 降级模式下不报错
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *InventorySettings {
	return sm.settings
}

// SetChimeEnabled 设置提示音开关
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetChimeEnabled(enabled bool) {
	sm.settings.ChimeEnabled = enabled
}

// SetChimeVolume 设置提示音音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetChimeVolume(volume float64) {
	sm.settings.ChimeVolume = clampVolume(volume)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetShowGuides 设置是否显示辅助信息
func (sm *SettingsManager) SetShowGuides(enabled bool) {
	sm.settings.ShowGuides = enabled
}

// SetSpawnCountOverride 设置每批物品数量覆盖值，负数视为 0（不覆盖）
func (sm *SettingsManager) SetSpawnCountOverride(n int) {
	if n < 0 {
		n = 0
	}
	sm.settings.SpawnCountOverride = n
}

// EffectiveSpawnCount 返回考虑覆盖值后的每批物品数量
func (sm *SettingsManager) EffectiveSpawnCount(layoutSpawnCount int) int {
	if sm.settings.SpawnCountOverride > 0 {
		return sm.settings.SpawnCountOverride
	}
	return layoutSpawnCount
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
