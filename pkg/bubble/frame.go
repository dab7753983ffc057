package bubble

import (
	"sync"
	"time"
)

// DefaultFrameInterval 无显示刷新回调时的回退帧间隔
const DefaultFrameInterval = 16 * time.Millisecond

// FrameHandle 帧回调注册句柄，0 表示无效
type FrameHandle uint64

// FrameSource 帧回调源
//
// RequestFrame 注册一个回调，在下一帧异步调用恰好一次；
// CancelFrame 取消尚未触发的回调。
type FrameSource interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// TimerFrameSource 基于定时器的回退帧源
//
// 回调在定时器 goroutine 上执行。
type TimerFrameSource struct {
	interval time.Duration

	mu     sync.Mutex
	next   FrameHandle
	timers map[FrameHandle]*time.Timer
}

// NewTimerFrameSource 创建回退帧源，interval <= 0 时使用 DefaultFrameInterval
func NewTimerFrameSource(interval time.Duration) *TimerFrameSource {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TimerFrameSource{
		interval: interval,
		timers:   make(map[FrameHandle]*time.Timer),
	}
}

// Interval 返回帧间隔
func (ts *TimerFrameSource) Interval() time.Duration {
	return ts.interval
}

// RequestFrame implements FrameSource.
func (ts *TimerFrameSource) RequestFrame(fn func()) FrameHandle {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.next++
	h := ts.next
	ts.timers[h] = time.AfterFunc(ts.interval, func() {
		ts.mu.Lock()
		_, ok := ts.timers[h]
		delete(ts.timers, h)
		ts.mu.Unlock()

		if ok {
			fn()
		}
	})
	return h
}

// CancelFrame implements FrameSource.
func (ts *TimerFrameSource) CancelFrame(h FrameHandle) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if t, ok := ts.timers[h]; ok {
		t.Stop()
		delete(ts.timers, h)
	}
}

// Pending 返回尚未触发的回调数量
func (ts *TimerFrameSource) Pending() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.timers)
}
