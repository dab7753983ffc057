package bubble

import (
	"math"
	"time"

	"github.com/decker502/bubblehearts/pkg/config"
	"github.com/decker502/bubblehearts/pkg/utils"
)

// AdvanceFunc 推进一个粒子一帧
//
// lifespan 为剩余寿命比例（生成时约为 1，到期时越过 0）。
// lifespan < 0 或非有限数时不绘制并返回 finished = true；
// 否则绘制一次并返回 false。
type AdvanceFunc func(lifespan float64) (finished bool, err error)

// TrajectoryParams 单个粒子的轨迹参数，生成时随机确定后不再改变
type TrajectoryParams struct {
	// BasicTranslateX 水平基准位置
	BasicTranslateX float64
	// Amplitude 最大摆动幅度
	Amplitude float64
	// Wave 带符号的摆动幅度，|Wave| ∈ [WaveMinPercent%, 100%] * Amplitude
	Wave float64
	// Frequency 摆动频率（度/单位寿命）
	Frequency float64
	// FadeOutStage 开始淡出的剩余寿命阈值
	FadeOutStage float64

	SurfaceHeight float64
	AssetHeight   float64
}

// Transform 某一时刻的视觉变换
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
	Alpha      float64
}

// NewTrajectoryParams 根据资源与表面尺寸采样轨迹参数
//
// 随机数的抽取顺序固定：水平抖动、摆动百分比、摆动方向、频率、淡出阈值。
func NewTrajectoryParams(rng Random, cfg config.TrajectoryConfig, assetW, assetH, surfaceW, surfaceH float64) TrajectoryParams {
	offset := cfg.HorizontalOffset
	basic := surfaceW/2 + float64(rng.UniformDiscrete(-offset, offset))

	// 资源对角线宽于表面时不摆动
	amplitude := math.Max((surfaceW-math.Hypot(assetW, assetH))/2-float64(offset), 0)

	wave := amplitude * float64(rng.UniformDiscrete(cfg.WaveMinPercent, 100)) / 100
	if rng.UniformDiscrete(0, 1) == 0 {
		wave = -wave
	}

	frequency := rng.UniformDiscrete(cfg.Frequency.Min, cfg.Frequency.Max)
	fadeOutStage := float64(rng.UniformDiscrete(cfg.FadeOutStagePercent.Min, cfg.FadeOutStagePercent.Max)) / 100

	return TrajectoryParams{
		BasicTranslateX: basic,
		Amplitude:       amplitude,
		Wave:            wave,
		Frequency:       float64(frequency),
		FadeOutStage:    fadeOutStage,
		SurfaceHeight:   surfaceH,
		AssetHeight:     assetH,
	}
}

// Scale 缩放：lifespan=1 时为 1.0，lifespan=0 时为 0.5
func (p TrajectoryParams) Scale(lifespan float64) float64 {
	return math.Max(0.5+lifespan*0.5, 0.5)
}

// TranslateX 水平位置，相位随年龄增长
func (p TrajectoryParams) TranslateX(lifespan float64) float64 {
	return p.BasicTranslateX + p.Wave*math.Sin(p.Frequency*(1-lifespan)*math.Pi/180)
}

// TranslateY 垂直位置，从表面底部线性上升到顶部
func (p TrajectoryParams) TranslateY(lifespan float64) float64 {
	return (p.SurfaceHeight - p.AssetHeight/2) * lifespan
}

// Alpha 透明度：高于淡出阈值时不透明，之后线性降到 0，保留两位小数
func (p TrajectoryParams) Alpha(lifespan float64) float64 {
	if lifespan > p.FadeOutStage {
		return 1
	}
	return 1 - utils.RoundTo((p.FadeOutStage-lifespan)/p.FadeOutStage, 2)
}

// ComputeTransform 计算给定寿命下的变换，只依赖参数与 lifespan
func ComputeTransform(p TrajectoryParams, lifespan float64) Transform {
	return Transform{
		TranslateX: p.TranslateX(lifespan),
		TranslateY: p.TranslateY(lifespan),
		Scale:      p.Scale(lifespan),
		Alpha:      p.Alpha(lifespan),
	}
}

// DrawTransform 以 t 为变换把资源居中绘制到画布
// Save/Restore 始终成对执行，变换不会泄漏到下一次绘制
func DrawTransform(canvas Canvas, asset Asset, t Transform) error {
	w, h := assetSize(asset)

	canvas.Save()
	defer canvas.Restore()

	canvas.Translate(t.TranslateX, t.TranslateY)
	canvas.Scale(t.Scale, t.Scale)
	canvas.SetGlobalAlpha(t.Alpha)
	return canvas.DrawImage(asset, -w/2, -h/2, w, h)
}

// NewTrajectory 默认轨迹生成器
//
// 读取资源与画布尺寸，一次性采样参数，返回闭包形式的推进函数。
func NewTrajectory(asset Asset, canvas Canvas, rng Random, cfg config.TrajectoryConfig) AdvanceFunc {
	assetW, assetH := assetSize(asset)
	surfaceW, surfaceH := canvas.Size()
	params := NewTrajectoryParams(rng, cfg, assetW, assetH, float64(surfaceW), float64(surfaceH))

	return func(lifespan float64) (bool, error) {
		if Expired(lifespan) {
			return true, nil
		}
		return false, DrawTransform(canvas, asset, ComputeTransform(params, lifespan))
	}
}

// Lifespan 计算剩余寿命比例 (start + duration - now) / duration
//
// duration <= 0 时返回 -Inf，粒子在第一次推进时即结束。
func Lifespan(start time.Time, duration time.Duration, now time.Time) float64 {
	if duration <= 0 {
		return math.Inf(-1)
	}
	return float64(start.Add(duration).Sub(now)) / float64(duration)
}

// Expired 判断寿命是否已结束（负数或非有限数）
func Expired(lifespan float64) bool {
	return !utils.IsFinite(lifespan) || lifespan < 0
}
