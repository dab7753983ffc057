package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置校验失败时返回的哨兵错误
var ErrInvalidConfig = errors.New("invalid bubble config")

// BubbleConfigPath 内嵌默认配置的路径
const BubbleConfigPath = "data/bubble_config.yaml"

// BubbleConfig 气泡动画配置
//
// 所有可调常量集中在这里，默认值与 data/bubble_config.yaml 保持一致。
type BubbleConfig struct {
	// Surface 绘制表面尺寸（像素）
	Surface SurfaceConfig `yaml:"surface"`

	// FrameIntervalMs 回退定时器的帧间隔（毫秒）
	FrameIntervalMs int `yaml:"frameIntervalMs"`

	// Duration 未指定时长时随机选取的寿命范围（毫秒）
	Duration IntRange `yaml:"duration"`

	// Trajectory 轨迹随机参数
	Trajectory TrajectoryConfig `yaml:"trajectory"`

	// Burst 查看器一次点击生成的数量
	Burst BurstConfig `yaml:"burst"`
}

// SurfaceConfig 绘制表面尺寸
type SurfaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TrajectoryConfig 轨迹生成参数
type TrajectoryConfig struct {
	// HorizontalOffset 水平基准位置的随机抖动幅度（像素）
	HorizontalOffset int `yaml:"horizontalOffset"`

	// WaveMinPercent 摆动幅度占振幅的最小百分比
	WaveMinPercent int `yaml:"waveMinPercent"`

	// Frequency 摆动频率范围
	Frequency IntRange `yaml:"frequency"`

	// FadeOutStagePercent 淡出阈值范围（剩余寿命百分比）
	FadeOutStagePercent IntRange `yaml:"fadeOutStagePercent"`
}

// BurstConfig 批量生成配置
type BurstConfig struct {
	Count          int `yaml:"count"`
	AutoIntervalMs int `yaml:"autoIntervalMs"`
}

// IntRange 闭区间整数范围
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// DefaultBubbleConfig 返回默认配置
func DefaultBubbleConfig() *BubbleConfig {
	return &BubbleConfig{
		Surface:         SurfaceConfig{Width: 400, Height: 600},
		FrameIntervalMs: 16,
		Duration:        IntRange{Min: 2000, Max: 4000},
		Trajectory: TrajectoryConfig{
			HorizontalOffset:    0,
			WaveMinPercent:      10,
			Frequency:           IntRange{Min: 250, Max: 800},
			FadeOutStagePercent: IntRange{Min: 84, Max: 98},
		},
		Burst: BurstConfig{Count: 5, AutoIntervalMs: 600},
	}
}

// LoadBubbleConfig 从文件加载配置
//
// 参数:
//   - path: 配置文件路径（如 "configs/bubble.yaml"）
//
// 返回:
//   - *BubbleConfig: 校验通过的配置
//   - error: 读取、解析或校验失败
func LoadBubbleConfig(path string) (*BubbleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bubble config: %w", err)
	}
	return ParseBubbleConfig(data)
}

// ParseBubbleConfig 解析 YAML 配置
//
// 文件中缺失的字段保留默认值。
func ParseBubbleConfig(data []byte) (*BubbleConfig, error) {
	cfg := DefaultBubbleConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse bubble config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 验证配置有效性
func (c *BubbleConfig) Validate() error {
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		return fmt.Errorf("%w: surface size must be positive, got %dx%d",
			ErrInvalidConfig, c.Surface.Width, c.Surface.Height)
	}

	if c.FrameIntervalMs <= 0 {
		return fmt.Errorf("%w: frameIntervalMs must be positive, got %d", ErrInvalidConfig, c.FrameIntervalMs)
	}

	if err := c.Duration.validate("duration"); err != nil {
		return err
	}
	if c.Duration.Min <= 0 {
		return fmt.Errorf("%w: duration.min must be positive, got %d", ErrInvalidConfig, c.Duration.Min)
	}

	t := c.Trajectory
	if t.HorizontalOffset < 0 {
		return fmt.Errorf("%w: trajectory.horizontalOffset must not be negative, got %d",
			ErrInvalidConfig, t.HorizontalOffset)
	}
	if t.WaveMinPercent < 0 || t.WaveMinPercent > 100 {
		return fmt.Errorf("%w: trajectory.waveMinPercent out of [0,100]: %d", ErrInvalidConfig, t.WaveMinPercent)
	}
	if err := t.Frequency.validate("trajectory.frequency"); err != nil {
		return err
	}
	if err := t.FadeOutStagePercent.validate("trajectory.fadeOutStagePercent"); err != nil {
		return err
	}
	if t.FadeOutStagePercent.Min <= 0 || t.FadeOutStagePercent.Max > 100 {
		return fmt.Errorf("%w: trajectory.fadeOutStagePercent out of (0,100]: [%d,%d]",
			ErrInvalidConfig, t.FadeOutStagePercent.Min, t.FadeOutStagePercent.Max)
	}

	if c.Burst.Count < 1 {
		return fmt.Errorf("%w: burst.count must be at least 1, got %d", ErrInvalidConfig, c.Burst.Count)
	}
	if c.Burst.AutoIntervalMs <= 0 {
		return fmt.Errorf("%w: burst.autoIntervalMs must be positive, got %d", ErrInvalidConfig, c.Burst.AutoIntervalMs)
	}

	return nil
}

// FrameInterval 回退定时器帧间隔
func (c *BubbleConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// AutoBurstInterval 自动生成的间隔
func (c *BubbleConfig) AutoBurstInterval() time.Duration {
	return time.Duration(c.Burst.AutoIntervalMs) * time.Millisecond
}

func (r IntRange) validate(name string) error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s range invalid: min(%d) > max(%d)", ErrInvalidConfig, name, r.Min, r.Max)
	}
	return nil
}
