package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errUnavailable = errors.New("broker unavailable")

// fakeClock 可手动推进的时钟,避免测试依赖sleep
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(cfg Config) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("test-"+time.Now().Format("150405.000000000"), cfg)
	cb.now = clock.Now
	cb.resetWindow(clock.Now())
	return cb, clock
}

func succeed(context.Context) error { return nil }
func fail(context.Context) error    { return errUnavailable }

// TestCircuitBreaker_ClosedState 关闭状态下请求正常通过
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb, _ := newTestBreaker(Config{Interval: 10 * time.Second, Timeout: 30 * time.Second})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(context.Background(), succeed); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 || counts.Requests != 10 {
		t.Errorf("统计错误: %+v", counts)
	}
}

// TestCircuitBreaker_OpenState 连续失败后熔断,不再调用fn
func TestCircuitBreaker_OpenState(t *testing.T) {
	cb, _ := newTestBreaker(Config{Timeout: 30 * time.Second, ReadyToTrip: ConsecutiveFailures(5)})

	for i := 0; i < 5; i++ {
		if err := cb.Execute(context.Background(), fail); !errors.Is(err, errUnavailable) {
			t.Fatalf("期望返回原始错误，实际%v", err)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_HalfOpenToClosed 超时后半开,探测成功则关闭
func TestCircuitBreaker_HalfOpenToClosed(t *testing.T) {
	cb, clock := newTestBreaker(Config{MaxRequests: 1, Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(3)})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), fail)
	}
	clock.Advance(1500 * time.Millisecond)

	if cb.State() != StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", cb.State())
	}
	if err := cb.Execute(context.Background(), succeed); err != nil {
		t.Fatalf("半开状态探测请求应该通过，实际%v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("期望状态转为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenToOpen 半开状态探测失败立即重新打开
func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	cb, clock := newTestBreaker(Config{Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(2)})

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	clock.Advance(2 * time.Second)

	_ = cb.Execute(context.Background(), fail)
	if cb.State() != StateOpen {
		t.Errorf("期望状态转回OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_HalfOpenLimit 半开状态只放行MaxRequests个探测请求
func TestCircuitBreaker_HalfOpenLimit(t *testing.T) {
	cb, clock := newTestBreaker(Config{MaxRequests: 2, Timeout: time.Second, ReadyToTrip: ConsecutiveFailures(1)})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(2 * time.Second)

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(context.Background(), func(context.Context) error {
				started <- struct{}{}
				<-release
				return nil
			})
		}()
	}
	<-started
	<-started

	if err := cb.Execute(context.Background(), succeed); !errors.Is(err, ErrOpenState) {
		t.Errorf("探测名额已满时期望ErrOpenState，实际%v", err)
	}

	close(release)
	wg.Wait()
	if cb.State() != StateClosed {
		t.Errorf("探测全部成功后期望CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_IntervalResetsCounts 统计窗口过期后计数清零
func TestCircuitBreaker_IntervalResetsCounts(t *testing.T) {
	cb, clock := newTestBreaker(Config{Interval: 10 * time.Second, ReadyToTrip: ConsecutiveFailures(3)})

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	clock.Advance(11 * time.Second)
	_ = cb.Execute(context.Background(), fail)

	if cb.State() != StateClosed {
		t.Errorf("窗口重置后不应熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.ConsecutiveFailures != 1 {
		t.Errorf("期望连续失败1次，实际%d", counts.ConsecutiveFailures)
	}
}

// TestCircuitBreaker_StateChangeCallback 状态切换回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(Config{
		Timeout:     time.Second,
		ReadyToTrip: ConsecutiveFailures(1),
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(2 * time.Second)
	_ = cb.Execute(context.Background(), succeed)

	want := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if len(transitions) != len(want) {
		t.Fatalf("期望%v，实际%v", want, transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("第%d次切换期望%s，实际%s", i, want[i], transitions[i])
		}
	}
}

// TestCircuitBreaker_FailureRate 按失败率熔断
func TestCircuitBreaker_FailureRate(t *testing.T) {
	cb, _ := newTestBreaker(Config{ReadyToTrip: FailureRate(10, 0.5)})

	for i := 0; i < 10; i++ {
		if i%3 == 0 {
			_ = cb.Execute(context.Background(), succeed)
		} else {
			_ = cb.Execute(context.Background(), fail)
		}
	}

	if cb.State() != StateOpen {
		t.Errorf("失败率60%%期望OPEN，实际%s", cb.State())
	}
}

// TestDefaultConfig_IgnoresCanceled 调用方取消不计为失败
func TestDefaultConfig_IgnoresCanceled(t *testing.T) {
	cb, _ := newTestBreaker(DefaultConfig())

	for i := 0; i < 10; i++ {
		_ = cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	}

	if cb.State() != StateClosed {
		t.Errorf("取消不应触发熔断，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalFailures != 0 {
		t.Errorf("期望失败0次，实际%d", counts.TotalFailures)
	}
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := New("bench", Config{ReadyToTrip: ConsecutiveFailures(5)})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, succeed)
	}
}
