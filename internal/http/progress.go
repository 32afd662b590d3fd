package http

import (
	"bytes"
	"context"
	"io"
	"time"

	"golang.org/x/time/rate"
)

// Progress is a snapshot of a running transfer.
type Progress struct {
	Written int64

	// Total is the expected size, or zero when unknown.
	Total int64

	// Rate is the instantaneous transfer rate in bytes per second,
	// measured over the bytes written since the previous update.
	Rate float64

	// ETA is the estimated time left. Zero when Total or Rate is unknown.
	ETA time.Duration
}

// Percent returns the completed share in [0, 100], or -1 when the total is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	pct := float64(p.Written) / float64(p.Total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ProgressWriter wraps a writer to track transfer progress.
//
// OnUpdate receives the bytes written so far together with the rate and
// ETA. Updates are throttled to one per Interval; an Interval of zero
// reports every write. Call Finish once the copy is done to deliver the
// final state regardless of throttling.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer:   &buf,
//	    Total:    contentLength,
//	    Interval: 100 * time.Millisecond,
//	    OnUpdate: func(p Progress) {
//	        fmt.Printf("%d / %d bytes at %.0f B/s\n", p.Written, p.Total, p.Rate)
//	    },
//	}
//	io.Copy(pw, stream)
//	pw.Finish()
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// Interval is the minimum time between two OnUpdate calls.
	Interval time.Duration

	// OnUpdate is called with the current progress.
	OnUpdate func(Progress)

	sometimes   *rate.Sometimes
	now         func() time.Time
	started     bool
	lastAt      time.Time
	lastWritten int64
	rate        float64
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	if !pw.started {
		pw.start()
	}
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate == nil {
		return n, err
	}

	if pw.Interval <= 0 {
		pw.update()
	} else {
		pw.sometimes.Do(pw.update)
	}
	return n, err
}

// Finish reports the final progress unconditionally.
func (pw *ProgressWriter) Finish() {
	if !pw.started {
		pw.start()
	}
	if pw.OnUpdate != nil {
		pw.update()
	}
}

func (pw *ProgressWriter) start() {
	pw.started = true
	if pw.now == nil {
		pw.now = time.Now
	}
	pw.lastAt = pw.now()
	pw.sometimes = &rate.Sometimes{Interval: pw.Interval}
}

func (pw *ProgressWriter) update() {
	now := pw.now()
	if elapsed := now.Sub(pw.lastAt); elapsed > 0 {
		pw.rate = float64(pw.Written-pw.lastWritten) / elapsed.Seconds()
		pw.lastAt = now
		pw.lastWritten = pw.Written
	}

	p := Progress{Written: pw.Written, Total: pw.Total, Rate: pw.rate}
	if pw.Total > 0 && pw.rate > 0 && pw.Written < pw.Total {
		remaining := float64(pw.Total - pw.Written)
		p.ETA = time.Duration(remaining / pw.rate * float64(time.Second))
	}
	pw.OnUpdate(p)
}

// maxPrealloc bounds the buffer grown up front from a declared size.
const maxPrealloc = 512 << 20

// ReadAll reads r to the end into a new buffer, reporting progress.
//
// total is the declared size used for progress and to size the buffer up
// front; pass zero when unknown. The read stops with ctx.Err() once ctx
// is cancelled. The returned buffer is owned by the caller.
func ReadAll(ctx context.Context, r io.Reader, total int64, interval time.Duration, onProgress func(Progress)) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if total > 0 && total <= maxPrealloc {
		buf.Grow(int(total))
	}

	pw := &ProgressWriter{
		Writer:   buf,
		Total:    total,
		Interval: interval,
		OnUpdate: onProgress,
	}
	if _, err := io.Copy(pw, &contextReader{ctx: ctx, r: r}); err != nil {
		return nil, err
	}
	pw.Finish()
	return buf, nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
