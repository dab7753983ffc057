// Package bubble 实现"气泡爱心"装饰动画：调度器维护活动粒子列表并逐帧推进，
// 轨迹生成器为每个粒子采样一次随机参数并计算缩放、摆动、上升与淡出。
package bubble

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/decker502/bubblehearts/pkg/config"
)

// Clock 当前时间源
type Clock func() time.Time

// Stats 调度器累计统计
type Stats struct {
	Spawned uint64 // 已生成粒子数
	Retired uint64 // 正常到期移除数
	Faulted uint64 // 推进出错被丢弃数
}

type particle struct {
	id        uint64
	advance   AdvanceFunc
	duration  time.Duration
	startTime time.Time
}

// Scheduler 粒子调度器
//
// 持有活动粒子的有序列表和帧循环。每帧：先重新注册下一帧回调，
// 然后清空画布，按插入顺序推进每个粒子，移除返回结束信号的粒子。
// 单个粒子推进出错（返回 error 或 panic）时只丢弃该粒子并记录日志。
//
// Spawn 可在任意 goroutine 调用；Tick 之间互斥执行。
type Scheduler struct {
	canvas Canvas
	cfg    *config.BubbleConfig
	frames FrameSource
	rng    Random
	now    Clock

	// tickMu 串行化帧处理，画布只在持有它时被修改
	tickMu sync.Mutex

	mu         sync.Mutex
	particles  []*particle
	nextID     uint64
	generation uint64
	pending    FrameHandle
	running    bool
	stats      Stats
}

// Option 调度器可选项
type Option func(*Scheduler)

// WithFrameSource 指定帧回调源，默认使用 TimerFrameSource
func WithFrameSource(fs FrameSource) Option {
	return func(s *Scheduler) { s.frames = fs }
}

// WithRandom 指定随机源，默认使用 DefaultRandom
func WithRandom(r Random) Option {
	return func(s *Scheduler) { s.rng = r }
}

// WithClock 指定时间源，默认使用 time.Now
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.now = c }
}

// NewScheduler 创建调度器，cfg 为 nil 时使用默认配置
//
// 创建后需调用 Start() 启动帧循环。
func NewScheduler(canvas Canvas, cfg *config.BubbleConfig, opts ...Option) *Scheduler {
	if cfg == nil {
		cfg = config.DefaultBubbleConfig()
	}

	s := &Scheduler{
		canvas: canvas,
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.frames == nil {
		s.frames = NewTimerFrameSource(cfg.FrameInterval())
	}
	if s.rng == nil {
		s.rng = DefaultRandom()
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// Start 启动帧循环，重复调用无效果
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.pending = s.frames.RequestFrame(s.frame)
	log.Printf("[Scheduler] Frame loop started")
}

// Stop 取消待触发的帧回调，活动粒子保留
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.frames.CancelFrame(s.pending)
	s.pending = 0
	log.Printf("[Scheduler] Frame loop stopped")
}

// Running 帧循环是否在运行
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Clear 移除所有活动粒子
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.particles = nil
	s.generation++
}

// Dispose 停止帧循环并清空活动粒子
func (s *Scheduler) Dispose() {
	s.Stop()
	s.Clear()
}

// SpawnOption 单次生成的可选项
type SpawnOption func(*spawnOptions)

type spawnOptions struct {
	duration    time.Duration
	hasDuration bool
	advance     AdvanceFunc
}

// WithDuration 指定粒子寿命，未指定时在配置范围内随机选取
// 非正数的寿命使粒子在下一帧直接结束
func WithDuration(d time.Duration) SpawnOption {
	return func(o *spawnOptions) {
		o.duration = d
		o.hasDuration = true
	}
}

// WithAdvance 使用自定义推进函数替代默认轨迹
func WithAdvance(fn AdvanceFunc) SpawnOption {
	return func(o *spawnOptions) { o.advance = fn }
}

// Spawn 生成一个粒子并追加到活动列表末尾，返回调度器自身以便链式调用
//
// 不校验 asset，无法绘制的资源在第一次推进时才会出错。
func (s *Scheduler) Spawn(asset Asset, opts ...SpawnOption) *Scheduler {
	var o spawnOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !o.hasDuration {
		ms := s.rng.UniformDiscrete(s.cfg.Duration.Min, s.cfg.Duration.Max)
		o.duration = time.Duration(ms) * time.Millisecond
	}
	if o.advance == nil {
		o.advance = NewTrajectory(asset, s.canvas, s.rng, s.cfg.Trajectory)
	}

	p := &particle{
		advance:   o.advance,
		duration:  o.duration,
		startTime: s.now(),
	}

	s.mu.Lock()
	s.nextID++
	p.id = s.nextID
	s.particles = append(s.particles, p)
	s.stats.Spawned++
	s.mu.Unlock()

	return s
}

// SpawnBurst 生成 n 个粒子，每个从 assets 中随机选取资源
func (s *Scheduler) SpawnBurst(assets []Asset, n int) *Scheduler {
	if len(assets) == 0 {
		return s
	}
	for i := 0; i < n; i++ {
		s.Spawn(assets[s.rng.UniformDiscrete(0, len(assets)-1)])
	}
	return s
}

// Len 返回活动粒子数
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.particles)
}

// Stats 返回累计统计
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// frame 帧回调：先重新注册，再处理
func (s *Scheduler) frame() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.pending = s.frames.RequestFrame(s.frame)
	s.mu.Unlock()

	s.Tick()
}

// Tick 执行一帧：清空画布，按插入顺序推进所有粒子并移除结束的粒子
//
// 推进期间新生成的粒子排在本帧保留的粒子之后，下一帧才被推进。
func (s *Scheduler) Tick() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	w, h := s.canvas.Size()
	s.canvas.ClearRect(0, 0, float64(w), float64(h))

	s.mu.Lock()
	active := s.particles
	generation := s.generation
	s.particles = nil
	s.mu.Unlock()

	now := s.now()
	kept := active[:0]
	var retired, faulted uint64

	for _, p := range active {
		finished, err := advance(p, now)
		switch {
		case err != nil:
			faulted++
			log.Printf("[Scheduler] Warning: dropping particle #%d: %v", p.id, err)
		case finished:
			retired++
		default:
			kept = append(kept, p)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 推进期间调用了 Clear，本帧保留的粒子一并丢弃
	if s.generation == generation {
		s.particles = append(kept, s.particles...)
	}
	s.stats.Retired += retired
	s.stats.Faulted += faulted
}

// advance 推进单个粒子，panic 转换为 error
func advance(p *particle, now time.Time) (finished bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			finished, err = false, fmt.Errorf("advance panicked: %v", r)
		}
	}()
	return p.advance(Lifespan(p.startTime, p.duration, now))
}
