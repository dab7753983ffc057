package bubble

import (
	"errors"
	"image"
	"sort"
	"sync"
	"time"
)

// canvasOp 记录画布调用
type canvasOp struct {
	kind string
	args []float64
}

// recordingCanvas 记录所有绘制调用的测试画布
type recordingCanvas struct {
	width, height int
	ops           []canvasOp
	depth         int
	maxDepth      int
	drawErr       error
}

func newRecordingCanvas(w, h int) *recordingCanvas {
	return &recordingCanvas{width: w, height: h}
}

func (c *recordingCanvas) Size() (int, int) { return c.width, c.height }

func (c *recordingCanvas) ClearRect(x, y, w, h float64) {
	c.ops = append(c.ops, canvasOp{"clear", []float64{x, y, w, h}})
}

func (c *recordingCanvas) Save() {
	c.depth++
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
	c.ops = append(c.ops, canvasOp{kind: "save"})
}

func (c *recordingCanvas) Restore() {
	c.depth--
	c.ops = append(c.ops, canvasOp{kind: "restore"})
}

func (c *recordingCanvas) Translate(x, y float64) {
	c.ops = append(c.ops, canvasOp{"translate", []float64{x, y}})
}

func (c *recordingCanvas) Scale(sx, sy float64) {
	c.ops = append(c.ops, canvasOp{"scale", []float64{sx, sy}})
}

func (c *recordingCanvas) SetGlobalAlpha(alpha float64) {
	c.ops = append(c.ops, canvasOp{"alpha", []float64{alpha}})
}

func (c *recordingCanvas) DrawImage(asset Asset, x, y, w, h float64) error {
	c.ops = append(c.ops, canvasOp{"draw", []float64{x, y, w, h}})
	if asset == nil {
		return ErrAssetNotDrawable
	}
	return c.drawErr
}

func (c *recordingCanvas) count(kind string) int {
	n := 0
	for _, op := range c.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

func (c *recordingCanvas) kinds() []string {
	out := make([]string, len(c.ops))
	for i, op := range c.ops {
		out[i] = op.kind
	}
	return out
}

func (c *recordingCanvas) reset() {
	c.ops = nil
}

// testAsset 固定尺寸的测试资源
type testAsset struct{ w, h int }

func (a testAsset) Bounds() image.Rectangle { return image.Rect(0, 0, a.w, a.h) }

// randCall 记录一次随机数请求
type randCall struct{ min, max int }

// scriptedRandom 按脚本返回随机值，脚本耗尽后返回 min
type scriptedRandom struct {
	values []int
	calls  []randCall
}

func (r *scriptedRandom) UniformDiscrete(min, max int) int {
	r.calls = append(r.calls, randCall{min, max})
	if len(r.values) == 0 {
		return min
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

// manualFrameSource 手动触发的帧源
type manualFrameSource struct {
	mu      sync.Mutex
	next    FrameHandle
	pending map[FrameHandle]func()
}

func newManualFrameSource() *manualFrameSource {
	return &manualFrameSource{pending: make(map[FrameHandle]func())}
}

func (m *manualFrameSource) RequestFrame(fn func()) FrameHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.pending[m.next] = fn
	return m.next
}

func (m *manualFrameSource) CancelFrame(h FrameHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, h)
}

func (m *manualFrameSource) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Fire 触发当前所有待处理回调，返回触发数量
func (m *manualFrameSource) Fire() int {
	m.mu.Lock()
	handles := make([]FrameHandle, 0, len(m.pending))
	for h := range m.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	fns := make([]func(), 0, len(handles))
	for _, h := range handles {
		fns = append(fns, m.pending[h])
		delete(m.pending, h)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// mockClock 可控时间源
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errBoom = errors.New("boom")
