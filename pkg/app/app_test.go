package app

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/decker502/bubblehearts/pkg/bubble"
	"github.com/decker502/bubblehearts/pkg/config"
	"github.com/decker502/bubblehearts/pkg/embedded"
	"github.com/decker502/bubblehearts/pkg/game"
)

// fakeNow 可控时间
type fakeNow struct{ t time.Time }

func (f *fakeNow) Now() time.Time          { return f.t }
func (f *fakeNow) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestApp(t *testing.T) (*App, *fakeNow) {
	t.Helper()
	clock := &fakeNow{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cfg := config.DefaultBubbleConfig()
	settings := game.NewSettingsManager(nil, game.DefaultSettings(cfg.Burst.Count))
	a := newApp(cfg, loadAssets(""), settings, bubble.NewRandom(11), clock.Now)
	t.Cleanup(a.Close)
	return a, clock
}

// TestBurst 一次生成 BurstCount 个粒子
func TestBurst(t *testing.T) {
	a, _ := newTestApp(t)

	a.Burst()
	if got := a.Scheduler().Len(); got != 5 {
		t.Errorf("Len after burst = %d, want 5", got)
	}

	a.AdjustBurstCount(2)
	a.Burst()
	if got := a.Scheduler().Len(); got != 12 {
		t.Errorf("Len after second burst = %d, want 12", got)
	}
}

// TestAdjustBurstCountClamp 数量限制在 [1, MaxBurstCount]
func TestAdjustBurstCountClamp(t *testing.T) {
	a, _ := newTestApp(t)

	a.AdjustBurstCount(-100)
	if got := a.Settings().GetSettings().BurstCount; got != 1 {
		t.Errorf("BurstCount = %d, want 1", got)
	}
	a.AdjustBurstCount(1000)
	if got := a.Settings().GetSettings().BurstCount; got != game.MaxBurstCount {
		t.Errorf("BurstCount = %d, want %d", got, game.MaxBurstCount)
	}
}

// TestAutoBurst 自动模式按间隔生成
func TestAutoBurst(t *testing.T) {
	a, clock := newTestApp(t)

	// 未开启时不生成
	clock.Advance(time.Hour)
	a.updateAutoBurst()
	if a.Scheduler().Len() != 0 {
		t.Fatalf("auto burst disabled but Len = %d", a.Scheduler().Len())
	}

	a.ToggleAutoBurst()
	if !a.Settings().GetSettings().AutoBurst {
		t.Fatal("AutoBurst should be enabled")
	}

	clock.Advance(599 * time.Millisecond)
	a.updateAutoBurst()
	if a.Scheduler().Len() != 0 {
		t.Errorf("burst before interval, Len = %d", a.Scheduler().Len())
	}

	clock.Advance(time.Millisecond)
	a.updateAutoBurst()
	if a.Scheduler().Len() != 5 {
		t.Errorf("Len after interval = %d, want 5", a.Scheduler().Len())
	}

	a.ToggleAutoBurst()
	clock.Advance(time.Second)
	a.updateAutoBurst()
	if a.Scheduler().Len() != 5 {
		t.Errorf("burst after disabling, Len = %d", a.Scheduler().Len())
	}
}

// TestFrameLoopRunning 创建后帧循环已启动，Close 后停止并清空
func TestFrameLoopRunning(t *testing.T) {
	a, _ := newTestApp(t)

	if !a.Scheduler().Running() {
		t.Error("scheduler should be running")
	}
	if a.frames.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", a.frames.Pending())
	}

	a.Burst()
	a.Close()
	if a.Scheduler().Running() || a.Scheduler().Len() != 0 {
		t.Errorf("after Close: running=%v len=%d", a.Scheduler().Running(), a.Scheduler().Len())
	}
	if a.frames.Pending() != 0 {
		t.Errorf("Pending after Close = %d, want 0", a.frames.Pending())
	}
}

// TestLayout 逻辑尺寸等于表面尺寸
func TestLayout(t *testing.T) {
	a, _ := newTestApp(t)

	w, h := a.Layout(1920, 1080)
	if w != 400 || h != 600 {
		t.Errorf("Layout = %dx%d, want 400x600", w, h)
	}
	if ww, wh := a.WindowSize(); ww != w || wh != h {
		t.Errorf("WindowSize = %dx%d, want %dx%d", ww, wh, w, h)
	}
}

// TestLoadAssets 内置爱心与加载失败回退
func TestLoadAssets(t *testing.T) {
	assets := loadAssets("")
	if len(assets) != len(heartPalette) {
		t.Fatalf("built-in assets = %d, want %d", len(assets), len(heartPalette))
	}
	for i, a := range assets {
		if b := a.Bounds(); b.Dx() != HeartSize || b.Dy() != HeartSize {
			t.Errorf("asset %d bounds = %v", i, b)
		}
	}

	fallback := loadAssets(filepath.Join(t.TempDir(), "missing.png"))
	if len(fallback) != len(heartPalette) {
		t.Errorf("fallback assets = %d, want %d", len(fallback), len(heartPalette))
	}
}

// TestLoadBubbleConfig 配置来源优先级
func TestLoadBubbleConfig(t *testing.T) {
	t.Run("未初始化内嵌资源时使用默认值", func(t *testing.T) {
		embedded.Init(nil)
		cfg, err := LoadBubbleConfig("")
		if err != nil {
			t.Fatalf("LoadBubbleConfig: %v", err)
		}
		if cfg.Burst.Count != config.DefaultBubbleConfig().Burst.Count {
			t.Errorf("Burst.Count = %d", cfg.Burst.Count)
		}
	})

	t.Run("内嵌配置", func(t *testing.T) {
		embedded.Init(fstest.MapFS{
			config.BubbleConfigPath: &fstest.MapFile{Data: []byte("burst:\n  count: 9\n  autoIntervalMs: 100\n")},
		})
		defer embedded.Init(nil)

		cfg, err := LoadBubbleConfig("")
		if err != nil {
			t.Fatalf("LoadBubbleConfig: %v", err)
		}
		if cfg.Burst.Count != 9 {
			t.Errorf("Burst.Count = %d, want 9", cfg.Burst.Count)
		}
	})

	t.Run("文件优先", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bubble.yaml")
		if err := os.WriteFile(path, []byte("surface:\n  width: 200\n  height: 300\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		cfg, err := LoadBubbleConfig(path)
		if err != nil {
			t.Fatalf("LoadBubbleConfig: %v", err)
		}
		if cfg.Surface.Width != 200 || cfg.Surface.Height != 300 {
			t.Errorf("Surface = %dx%d, want 200x300", cfg.Surface.Width, cfg.Surface.Height)
		}
	})

	t.Run("非法文件报错", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("surface:\n  width: 0\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadBubbleConfig(path); err == nil {
			t.Error("expected error for invalid config")
		}
	})
}
