// Package app 提供气泡爱心查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/decker502/bubblehearts/pkg/bubble"
	"github.com/decker502/bubblehearts/pkg/config"
	"github.com/decker502/bubblehearts/pkg/embedded"
	"github.com/decker502/bubblehearts/pkg/game"
	"github.com/decker502/bubblehearts/pkg/render"
	"github.com/decker502/bubblehearts/pkg/utils"
)

// HeartSize 内置爱心图片边长（像素）
const HeartSize = 48

// heartPalette 内置爱心的颜色
var heartPalette = []color.NRGBA{
	{R: 255, G: 64, B: 96, A: 255},
	{R: 255, G: 120, B: 160, A: 255},
	{R: 255, G: 160, B: 64, A: 255},
	{R: 176, G: 96, B: 255, A: 255},
	{R: 64, G: 160, B: 255, A: 255},
}

// backgroundColor 背景色
var backgroundColor = color.RGBA{R: 255, G: 246, B: 248, A: 255}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 动画配置文件路径，为空则使用内嵌的 data/bubble_config.yaml
	ConfigPath string
	// AssetPath 自定义图片路径，为空则使用内置爱心
	AssetPath string
	// Seed 随机种子，0 表示每次启动不同
	Seed uint64
	// DisablePersistence 不读写偏好设置
	DisablePersistence bool
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg       *config.BubbleConfig
	surface   *render.Surface
	frames    *render.FrameSource
	scheduler *bubble.Scheduler
	settings  *game.SettingsManager
	assets    []bubble.Asset
	now       func() time.Time

	lastAutoBurst time.Time
}

// NewApp 创建并初始化应用
//
// 使用内嵌配置前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	bubbleCfg, err := LoadBubbleConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	assets := loadAssets(cfg.AssetPath)

	var settings *game.SettingsManager
	defaults := game.DefaultSettings(bubbleCfg.Burst.Count)
	if cfg.DisablePersistence {
		settings = game.NewSettingsManager(nil, defaults)
	} else {
		storage, err := utils.OpenStorage(utils.StorageAppName)
		if err != nil {
			log.Printf("[App] Warning: %v (settings will not persist)", err)
		}
		settings = game.NewSettingsManager(storage, defaults)
	}

	var rng bubble.Random
	if cfg.Seed != 0 {
		rng = bubble.NewRandom(cfg.Seed)
	} else {
		rng = bubble.DefaultRandom()
	}

	a := newApp(bubbleCfg, assets, settings, rng, time.Now)
	log.Printf("[App] Surface %dx%d, %d asset(s), burst=%d",
		bubbleCfg.Surface.Width, bubbleCfg.Surface.Height, len(assets), settings.GetSettings().BurstCount)
	return a, nil
}

// newApp 组装各组件并启动帧循环
func newApp(cfg *config.BubbleConfig, assets []bubble.Asset, settings *game.SettingsManager, rng bubble.Random, now func() time.Time) *App {
	surface := render.NewSurface(cfg.Surface.Width, cfg.Surface.Height)
	frames := render.NewFrameSource()
	scheduler := bubble.NewScheduler(surface, cfg,
		bubble.WithFrameSource(frames),
		bubble.WithRandom(rng),
		bubble.WithClock(now),
	)
	scheduler.Start()

	return &App{
		cfg:       cfg,
		surface:   surface,
		frames:    frames,
		scheduler: scheduler,
		settings:  settings,
		assets:    assets,
		now:       now,
	}
}

// LoadBubbleConfig 加载动画配置
//
// path 非空时从磁盘读取；否则读取内嵌配置，内嵌资源未初始化时使用默认值。
func LoadBubbleConfig(path string) (*config.BubbleConfig, error) {
	if path != "" {
		log.Printf("[Config] 加载配置文件: %s", path)
		return config.LoadBubbleConfig(path)
	}

	if !embedded.IsInitialized() {
		log.Printf("[Config] Warning: embedded resources not initialized, using defaults")
		return config.DefaultBubbleConfig(), nil
	}

	data, err := embedded.ReadFile(config.BubbleConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded config: %w", err)
	}
	return config.ParseBubbleConfig(data)
}

// loadAssets 加载自定义图片，失败或未指定时使用内置爱心
func loadAssets(path string) []bubble.Asset {
	if path != "" {
		img, err := utils.LoadImage(path)
		if err == nil {
			log.Printf("[App] Loaded asset %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
			return []bubble.Asset{ebiten.NewImageFromImage(img)}
		}
		log.Printf("[App] Warning: %v (using built-in hearts)", err)
	}

	assets := make([]bubble.Asset, 0, len(heartPalette))
	for _, c := range heartPalette {
		assets = append(assets, ebiten.NewImageFromImage(utils.NewHeartImage(HeartSize, c)))
	}
	return assets
}

// Scheduler 返回粒子调度器
func (a *App) Scheduler() *bubble.Scheduler {
	return a.scheduler
}

// Settings 返回偏好设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// WindowSize 返回初始窗口尺寸
func (a *App) WindowSize() (int, int) {
	return a.cfg.Surface.Width, a.cfg.Surface.Height
}

// Burst 按当前设置生成一批粒子
func (a *App) Burst() {
	a.scheduler.SpawnBurst(a.assets, a.settings.GetSettings().BurstCount)
}

// ToggleAutoBurst 切换自动生成并保存设置
func (a *App) ToggleAutoBurst() {
	s := a.settings.GetSettings()
	a.settings.SetAutoBurst(!s.AutoBurst)
	a.lastAutoBurst = a.now()
	a.saveSettings()
}

// AdjustBurstCount 调整每次生成数量并保存设置
func (a *App) AdjustBurstCount(delta int) {
	a.settings.SetBurstCount(a.settings.GetSettings().BurstCount + delta)
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// updateAutoBurst 自动模式下按间隔生成
func (a *App) updateAutoBurst() {
	if !a.settings.GetSettings().AutoBurst {
		return
	}
	now := a.now()
	if now.Sub(a.lastAutoBurst) >= a.cfg.AutoBurstInterval() {
		a.lastAutoBurst = now
		a.Burst()
	}
}

// Update 处理输入
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if pressed, _, _ := utils.IsJustTouchedOrClicked(); pressed || utils.IsAnyKeyJustPressed(ebiten.KeySpace) {
		a.Burst()
	}

	if utils.IsAnyKeyJustPressed(ebiten.KeyA) {
		a.ToggleAutoBurst()
	}
	if utils.IsAnyKeyJustPressed(ebiten.KeyEqual, ebiten.KeyNumpadAdd) {
		a.AdjustBurstCount(1)
	}
	if utils.IsAnyKeyJustPressed(ebiten.KeyMinus, ebiten.KeyNumpadSubtract) {
		a.AdjustBurstCount(-1)
	}
	if utils.IsAnyKeyJustPressed(ebiten.KeyC) {
		a.scheduler.Clear()
	}

	// F11 切换全屏
	if utils.IsAnyKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
		a.saveSettings()
	}

	a.updateAutoBurst()
	return nil
}

// Draw 绘制画面
// 帧回调在这里执行，粒子绘制与显示刷新同步
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.frames.Pump()
	screen.DrawImage(a.surface.Image(), nil)

	s := a.settings.GetSettings()
	status := fmt.Sprintf("active: %d  burst: %d  auto: %v", a.scheduler.Len(), s.BurstCount, s.AutoBurst)
	// 移动端没有键盘，只显示状态
	if !utils.IsMobile() {
		status += "\nclick/space: burst  A: auto  +/-: size  C: clear"
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Surface.Width, a.cfg.Surface.Height
}

// Close 停止帧循环并保存设置
func (a *App) Close() {
	a.scheduler.Dispose()
	a.saveSettings()
	st := a.scheduler.Stats()
	log.Printf("[App] Closed: spawned=%d retired=%d faulted=%d", st.Spawned, st.Retired, st.Faulted)
}
