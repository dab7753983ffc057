// Package main provides a headless simulation of the bubble heart effect.
//
// It drives the particle scheduler with the timer frame source and a
// counting canvas, so the animation loop can be exercised on machines
// without a display.
//
// Usage:
//
//	go run ./cmd/bubblesim [flags]
//
// Flags:
//
//	--duration <d>    How long to keep spawning (default 5s)
//	--rate <n>        Particles spawned per second (default 20)
//	--seed <n>        Random seed, 0 means random
//	--config <path>   Animation config file (default data/bubble_config.yaml)
//	--verbose         Enable verbose logging
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/decker502/bubblehearts/pkg/bubble"
	"github.com/decker502/bubblehearts/pkg/config"
	"github.com/decker502/bubblehearts/pkg/utils"
)

var (
	durationFlag = flag.Duration("duration", 5*time.Second, "How long to keep spawning particles")
	rateFlag     = flag.Int("rate", 20, "Particles spawned per second")
	seedFlag     = flag.Uint64("seed", 0, "Random seed, 0 means random")
	configFlag   = flag.String("config", config.BubbleConfigPath, "Animation config file")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// simOptions 模拟参数
type simOptions struct {
	Duration time.Duration
	Rate     int
	Seed     uint64
	Config   *config.BubbleConfig
}

// simResult 模拟结果
type simResult struct {
	Stats    bubble.Stats
	Draws    int
	MinAlpha float64
	MaxAlpha float64
	MaxScale float64
	Elapsed  time.Duration
}

// countingCanvas 只统计绘制调用的画布
type countingCanvas struct {
	mu sync.Mutex

	width, height int
	scale         float64
	alpha         float64
	stack         [][2]float64

	draws    int
	minAlpha float64
	maxAlpha float64
	maxScale float64
}

func newCountingCanvas(w, h int) *countingCanvas {
	return &countingCanvas{width: w, height: h, scale: 1, alpha: 1, minAlpha: math.Inf(1)}
}

func (c *countingCanvas) Size() (int, int) { return c.width, c.height }

func (c *countingCanvas) ClearRect(x, y, w, h float64) {}

func (c *countingCanvas) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stack = append(c.stack, [2]float64{c.scale, c.alpha})
}

func (c *countingCanvas) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.stack); n > 0 {
		c.scale, c.alpha = c.stack[n-1][0], c.stack[n-1][1]
		c.stack = c.stack[:n-1]
	}
}

func (c *countingCanvas) Translate(x, y float64) {}

func (c *countingCanvas) Scale(sx, sy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale *= sx
}

func (c *countingCanvas) SetGlobalAlpha(alpha float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alpha = alpha
}

func (c *countingCanvas) DrawImage(asset bubble.Asset, x, y, w, h float64) error {
	if asset == nil {
		return bubble.ErrAssetNotDrawable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draws++
	c.minAlpha = math.Min(c.minAlpha, c.alpha)
	c.maxAlpha = math.Max(c.maxAlpha, c.alpha)
	c.maxScale = math.Max(c.maxScale, c.scale)
	return nil
}

// simulate 按固定速率生成粒子，生成结束后等待存量粒子全部结束
func simulate(ctx context.Context, opts simOptions) (simResult, error) {
	if opts.Rate <= 0 {
		return simResult{}, fmt.Errorf("rate must be positive, got %d", opts.Rate)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultBubbleConfig()
	}

	rng := bubble.DefaultRandom()
	if opts.Seed != 0 {
		rng = bubble.NewRandom(opts.Seed)
	}

	canvas := newCountingCanvas(cfg.Surface.Width, cfg.Surface.Height)
	frames := bubble.NewTimerFrameSource(cfg.FrameInterval())
	scheduler := bubble.NewScheduler(canvas, cfg,
		bubble.WithFrameSource(frames),
		bubble.WithRandom(rng),
	)
	asset := image.Image(utils.NewHeartImage(32, color.NRGBA{R: 255, G: 64, B: 96, A: 255}))

	start := time.Now()
	scheduler.Start()
	defer scheduler.Dispose()

	spawnTicker := time.NewTicker(time.Second / time.Duration(opts.Rate))
	defer spawnTicker.Stop()
	deadline := time.NewTimer(opts.Duration)
	defer deadline.Stop()

	var err error
spawnLoop:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break spawnLoop
		case <-deadline.C:
			break spawnLoop
		case <-spawnTicker.C:
			scheduler.Spawn(asset)
		}
	}

	if err == nil {
		log.Printf("[Sim] Spawning finished, draining %d particle(s)", scheduler.Len())
		err = drain(ctx, scheduler, cfg.FrameInterval())
	}
	scheduler.Stop()

	canvas.mu.Lock()
	res := simResult{
		Stats:    scheduler.Stats(),
		Draws:    canvas.draws,
		MinAlpha: canvas.minAlpha,
		MaxAlpha: canvas.maxAlpha,
		MaxScale: canvas.maxScale,
		Elapsed:  time.Since(start),
	}
	canvas.mu.Unlock()
	if res.Draws == 0 {
		res.MinAlpha = 0
	}
	return res, err
}

// drain 等待调度器中的粒子全部结束
func drain(ctx context.Context, s *bubble.Scheduler, interval time.Duration) error {
	poll := time.NewTicker(interval)
	defer poll.Stop()
	for s.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
		}
	}
	return nil
}

func printResult(w io.Writer, res simResult) {
	fmt.Fprintf(w, "elapsed:  %v\n", res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "spawned:  %d\n", res.Stats.Spawned)
	fmt.Fprintf(w, "retired:  %d\n", res.Stats.Retired)
	fmt.Fprintf(w, "faulted:  %d\n", res.Stats.Faulted)
	fmt.Fprintf(w, "draws:    %d\n", res.Draws)
	fmt.Fprintf(w, "alpha:    %.2f ~ %.2f\n", res.MinAlpha, res.MaxAlpha)
	fmt.Fprintf(w, "maxScale: %.2f\n", res.MaxScale)
}

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	cfg, err := config.LoadBubbleConfig(*configFlag)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		log.Printf("[Sim] %v, using defaults", err)
		cfg = config.DefaultBubbleConfig()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := simulate(ctx, simOptions{
		Duration: *durationFlag,
		Rate:     *rateFlag,
		Seed:     *seedFlag,
		Config:   cfg,
	})
	printResult(os.Stdout, res)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "simulation: %v\n", err)
		os.Exit(1)
	}
}
