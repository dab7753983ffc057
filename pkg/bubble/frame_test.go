package bubble

import (
	"testing"
	"time"
)

// TestTimerFrameSourceFires 回调触发恰好一次
func TestTimerFrameSourceFires(t *testing.T) {
	fs := NewTimerFrameSource(2 * time.Millisecond)

	fired := make(chan struct{}, 2)
	fs.RequestFrame(func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("frame callback did not fire")
	}

	select {
	case <-fired:
		t.Fatal("frame callback fired twice")
	case <-time.After(20 * time.Millisecond):
	}

	if fs.Pending() != 0 {
		t.Errorf("Pending = %d after fire, want 0", fs.Pending())
	}
}

// TestTimerFrameSourceCancel 取消后不触发
func TestTimerFrameSourceCancel(t *testing.T) {
	fs := NewTimerFrameSource(5 * time.Millisecond)

	fired := make(chan struct{}, 1)
	h := fs.RequestFrame(func() { fired <- struct{}{} })
	if fs.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", fs.Pending())
	}

	fs.CancelFrame(h)
	fs.CancelFrame(h) // 重复取消无副作用

	select {
	case <-fired:
		t.Fatal("cancelled frame fired")
	case <-time.After(30 * time.Millisecond):
	}
	if fs.Pending() != 0 {
		t.Errorf("Pending = %d after cancel, want 0", fs.Pending())
	}
}

// TestTimerFrameSourceDefaultInterval 非正间隔回退到默认值
func TestTimerFrameSourceDefaultInterval(t *testing.T) {
	if got := NewTimerFrameSource(0).Interval(); got != DefaultFrameInterval {
		t.Errorf("Interval = %v, want %v", got, DefaultFrameInterval)
	}
	if got := NewTimerFrameSource(-time.Second).Interval(); got != DefaultFrameInterval {
		t.Errorf("Interval = %v, want %v", got, DefaultFrameInterval)
	}
}

// TestSchedulerWithTimerFrameSource 回退定时器驱动完整生命周期
func TestSchedulerWithTimerFrameSource(t *testing.T) {
	canvas := newRecordingCanvas(400, 600)
	done := make(chan struct{})
	finished := false

	s := NewScheduler(canvas, nil, WithFrameSource(NewTimerFrameSource(time.Millisecond)))
	s.Spawn(nil, WithDuration(20*time.Millisecond), WithAdvance(func(l float64) (bool, error) {
		if Expired(l) {
			if !finished {
				finished = true
				close(done)
			}
			return true, nil
		}
		return false, nil
	}))
	s.Start()
	defer s.Dispose()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("particle never finished")
	}

	deadline := time.Now().Add(time.Second)
	for s.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}
