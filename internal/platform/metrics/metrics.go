package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	submissions     uint64
	approvals       uint64
	completions     uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) SubmissionRecorded() {
	atomic.AddUint64(&c.submissions, 1)
}

func (c *Collector) ApprovalRecorded(completed bool) {
	atomic.AddUint64(&c.approvals, 1)
	if completed {
		atomic.AddUint64(&c.completions, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":       total,
		"errorsTotal":         errs,
		"rateLimitedTotal":    limited,
		"avgDurationMs":       avg,
		"totalDurationMs":     totalMs,
		"appraisalsSubmitted": atomic.LoadUint64(&c.submissions),
		"approvalsRecorded":   atomic.LoadUint64(&c.approvals),
		"appraisalsCompleted": atomic.LoadUint64(&c.completions),
	}
}
