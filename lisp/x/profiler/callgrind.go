// Copyright © 2026 The Tilelisp authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/parser/token"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// callgrindProfiler writes Callgrind files which can be opened in
// KCacheGrind or QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer    io.Writer
	writeErr  error
	startTime time.Time
	refs      map[string]int
	current   *callRef
}

var _ lisp.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler writing to w.  When w is nil an
// output file must be chosen with SetFile before the profiler is enabled.
func NewCallgrindProfiler(w io.Writer, opts ...Option) *callgrindProfiler {
	p := &callgrindProfiler{writer: w}
	p.applyConfigs(opts...)
	return p
}

// callRef is an application being timed.
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	file        string
	line        int
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: tilelisp %s (Go %s)\n", lisp.Version, runtime.Version())
	w.print("cmd: Evaluate\npart: 1\npositions: line\n\n")
	w.print("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.current = nil
	p.Unlock()
	p.push("ENTRYPOINT", &token.Location{File: "-"})
	return p.profiler.Enable()
}

// SetFile creates filename and writes the profile to it.
func (p *callgrindProfiler) SetFile(filename string) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.writer = f
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	p.enabled = false
	// Unwind applications that never ended, then the entrypoint.
	for p.current != nil && p.current.prev != nil {
		p.current = p.current.prev
	}
	ref := p.current
	p.current = nil
	if p.writeErr != nil {
		return p.writeErr
	}
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeCalls(w, ref, 0)
	w.print("\n")
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", time.Since(p.startTime).Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	if c, ok := p.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	n := len(p.refs) + 1
	p.refs[name] = n
	return fmt.Sprintf("(%d) %s", n, name)
}

func (p *callgrindProfiler) Start(fun *lisp.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	ref := p.push(prettyLabel, getSourceLoc(fun))
	return func() {
		p.end(ref)
	}
}

func (p *callgrindProfiler) push(name string, loc *token.Location) *callRef {
	p.Lock()
	defer p.Unlock()
	ref := &callRef{name: name, prev: p.current}
	if loc != nil {
		ref.file = loc.File
		ref.line = loc.Line
	}
	if ref.file == "" {
		ref.file = "native"
	}
	if ref.prev != nil {
		ref.prev.children = append(ref.prev.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.current = ref
	return ref
}

func (p *callgrindProfiler) end(ref *callRef) {
	p.Lock()
	defer p.Unlock()
	if !p.enabled || p.writeErr != nil || p.current != ref {
		return
	}
	p.current = ref.prev
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	memory := ms.TotalAlloc - ref.startMemory
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", ref.line, ref.duration, memory)
	p.writeCalls(w, ref, memory)
	w.print("\n")
	p.writeErr = w.err
}

func (p *callgrindProfiler) writeCalls(w *errWriter, ref *callRef, memory uint64) {
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, memory)
	}
}
