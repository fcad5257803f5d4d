// Package stats tracks live counters for one mirroring run.
package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Writer is the mutation surface the engine uses.
type Writer interface {
	AddDirsCreated(n int64)
	AddFilesCopied(n int64)
	AddFilesMoved(n int64)
	AddFilesDeleted(n int64)
	AddDirsDeleted(n int64)
	AddSkipped(n int64)
	AddFailed(n int64)
	AddBytesCopied(n int64)
	AddFilesTotal(n int64)
	AddBytesTotal(n int64)
	AddFilesVerified(n int64)
	AddVerifyFailed(n int64)
}

// Reader is the read surface presenters use.
type Reader interface {
	Snapshot() Snapshot
	RollingSpeed(seconds int) float64
	RollingFilesPerSec(seconds int) float64
	SparklineData(n int) []float64
	ETA() time.Duration
	Elapsed() time.Duration
}

// ReadTicker is a Reader whose ring buffer is advanced by the presenter.
type ReadTicker interface {
	Reader
	Tick()
}

// Collector tracks run statistics using lock-free atomic counters. Workers
// and the aggregator write concurrently; presenters read snapshots.
type Collector struct {
	dirsCreated   atomic.Int64
	filesCopied   atomic.Int64
	filesMoved    atomic.Int64
	filesDeleted  atomic.Int64
	dirsDeleted   atomic.Int64
	skipped       atomic.Int64
	failed        atomic.Int64
	bytesCopied   atomic.Int64
	filesTotal    atomic.Int64
	bytesTotal    atomic.Int64
	filesVerified atomic.Int64
	verifyFailed  atomic.Int64
	startTime     time.Time

	// Ring buffer written only by the presenter's Tick, never by workers.
	mu          sync.Mutex
	throughput  [ringSize]int64
	filesPerSec [ringSize]int64
	ringIdx     int
	ringCount   int
	lastBytes   int64
	lastFiles   int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	DirsCreated   int64
	FilesCopied   int64
	FilesMoved    int64
	FilesDeleted  int64
	DirsDeleted   int64
	Skipped       int64
	Failed        int64
	BytesCopied   int64
	FilesTotal    int64
	BytesTotal    int64
	FilesVerified int64
	VerifyFailed  int64
	Elapsed       time.Duration
}

// Placed is the number of payload items that landed in the destination.
func (s Snapshot) Placed() int64 {
	return s.FilesCopied + s.FilesMoved
}

func (c *Collector) AddDirsCreated(n int64)   { c.dirsCreated.Add(n) }
func (c *Collector) AddFilesCopied(n int64)   { c.filesCopied.Add(n) }
func (c *Collector) AddFilesMoved(n int64)    { c.filesMoved.Add(n) }
func (c *Collector) AddFilesDeleted(n int64)  { c.filesDeleted.Add(n) }
func (c *Collector) AddDirsDeleted(n int64)   { c.dirsDeleted.Add(n) }
func (c *Collector) AddSkipped(n int64)       { c.skipped.Add(n) }
func (c *Collector) AddFailed(n int64)        { c.failed.Add(n) }
func (c *Collector) AddBytesCopied(n int64)   { c.bytesCopied.Add(n) }
func (c *Collector) AddFilesTotal(n int64)    { c.filesTotal.Add(n) }
func (c *Collector) AddBytesTotal(n int64)    { c.bytesTotal.Add(n) }
func (c *Collector) AddFilesVerified(n int64) { c.filesVerified.Add(n) }
func (c *Collector) AddVerifyFailed(n int64)  { c.verifyFailed.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		DirsCreated:   c.dirsCreated.Load(),
		FilesCopied:   c.filesCopied.Load(),
		FilesMoved:    c.filesMoved.Load(),
		FilesDeleted:  c.filesDeleted.Load(),
		DirsDeleted:   c.dirsDeleted.Load(),
		Skipped:       c.skipped.Load(),
		Failed:        c.failed.Load(),
		BytesCopied:   c.bytesCopied.Load(),
		FilesTotal:    c.filesTotal.Load(),
		BytesTotal:    c.bytesTotal.Load(),
		FilesVerified: c.filesVerified.Load(),
		VerifyFailed:  c.verifyFailed.Load(),
		Elapsed:       c.Elapsed(),
	}
}

// Tick records byte/file deltas into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	currentBytes := c.bytesCopied.Load()
	currentFiles := c.filesCopied.Load() + c.filesMoved.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = currentBytes - c.lastBytes
	c.filesPerSec[c.ringIdx] = currentFiles - c.lastFiles
	c.lastBytes = currentBytes
	c.lastFiles = currentFiles

	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.throughput[:], seconds)
}

// RollingFilesPerSec returns average files/sec over the last n seconds.
func (c *Collector) RollingFilesPerSec(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rollingAvg(c.filesPerSec[:], seconds)
}

func (c *Collector) rollingAvg(buf []int64, n int) float64 {
	count := n
	if count > c.ringCount {
		count = c.ringCount
	}
	if count == 0 {
		return 0
	}
	var sum int64
	for i := 0; i < count; i++ {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += buf[idx]
	}
	return float64(sum) / float64(count)
}

// SparklineData returns the last n bytes/sec samples, oldest first.
func (c *Collector) SparklineData(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := n
	if count > c.ringCount {
		count = c.ringCount
	}
	if count == 0 {
		return nil
	}

	data := make([]float64, count)
	for i := 0; i < count; i++ {
		idx := (c.ringIdx - count + i + ringSize) % ringSize
		data[i] = float64(c.throughput[idx])
	}
	return data
}

// ETA estimates remaining time based on rolling speed and remaining bytes.
func (c *Collector) ETA() time.Duration {
	speed := c.RollingSpeed(10)
	if speed <= 0 {
		return 0
	}
	remaining := c.bytesTotal.Load() - c.bytesCopied.Load()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/speed) * time.Second
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"dirs=%d copied=%d moved=%d deleted=%d skipped=%d failed=%d bytes=%d",
		s.DirsCreated, s.FilesCopied, s.FilesMoved, s.FilesDeleted+s.DirsDeleted,
		s.Skipped, s.Failed, s.BytesCopied,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
