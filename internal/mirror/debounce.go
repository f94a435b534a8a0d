package mirror

import (
	"sync"
	"time"
)

// Debouncer 推送去抖调度器
// Trigger 取消已排定的执行并重新计时，把连续变更合并为一次执行。
// fn 在计时器自己的 goroutine 中运行，不与 Trigger 调用方同步。
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	pending bool
}

// NewDebouncer 创建去抖调度器
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger 排定一次延迟执行；已有排定时无条件取消并重排
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.pending = false
	d.mu.Unlock()
	d.fn()
}

// Pending 是否有尚未执行的排定（供拉取路径检测竞态并告警）
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop 取消尚未执行的排定（进程关闭用）
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}
