package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// MaxBurstCount 一次生成的最大数量
const MaxBurstCount = 50

// ViewerSettings 查看器偏好设置
type ViewerSettings struct {
	BurstCount int  `yaml:"burstCount"` // 每次点击生成的数量 1 ~ MaxBurstCount
	AutoBurst  bool `yaml:"autoBurst"`  // 是否自动定时生成
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
//
// 参数：
//   - burstCount: 配置文件中的默认生成数量
func DefaultSettings(burstCount int) *ViewerSettings {
	return &ViewerSettings{
		BurstCount: clampBurstCount(burstCount),
		AutoBurst:  false,
		Fullscreen: false,
	}
}

// SettingsManager 设置管理器
// 负责偏好设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	defaults     ViewerSettings
	settings     *ViewerSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - defaults: 默认设置，nil 时使用 DefaultSettings(1)
//
// 加载失败不是致命错误，记录警告后使用默认设置。
func NewSettingsManager(gdataManager *gdata.Manager, defaults *ViewerSettings) *SettingsManager {
	if defaults == nil {
		defaults = DefaultSettings(1)
	}

	sm := &SettingsManager{
		gdataManager: gdataManager,
		defaults:     *defaults,
	}
	sm.settings = sm.defaultCopy()

	if err := sm.Load(); err != nil {
		log.Printf("[Settings] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

func (sm *SettingsManager) defaultCopy() *ViewerSettings {
	s := sm.defaults
	return &s
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = sm.defaultCopy()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = sm.defaultCopy()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = sm.defaultCopy()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := *sm.defaultCopy()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = sm.defaultCopy()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	loaded.BurstCount = clampBurstCount(loaded.BurstCount)
	sm.settings = &loaded
	log.Printf("[Settings] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
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

	log.Printf("[Settings] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetBurstCount 设置每次生成的数量，限制在 1 ~ MaxBurstCount
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetBurstCount(n int) {
	sm.settings.BurstCount = clampBurstCount(n)
}

// SetAutoBurst 设置自动生成开关
func (sm *SettingsManager) SetAutoBurst(enabled bool) {
	sm.settings.AutoBurst = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clampBurstCount 将数量限制在 1 ~ MaxBurstCount
func clampBurstCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxBurstCount {
		return MaxBurstCount
	}
	return n
}
