// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/viper"
	"github.com/tilelisp/tilelisp/lisp"
	"github.com/tilelisp/tilelisp/lisp/x/profiler"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	octrace "go.opencensus.io/trace"
)

// DefaultCallgrindFile receives callgrind output when profile-file is unset.
const DefaultCallgrindFile = "callgrind.out"

// newProfiler returns the enabled profiler selected by the profile key and a
// function which completes it and releases whatever it exported to.  The
// profiler is nil when profiling is disabled.
func newProfiler(ctx context.Context, v *viper.Viper) (lisp.Profiler, func() error, error) {
	var p lisp.Profiler
	var cleanup []func() error
	switch kind := v.GetString("profile"); kind {
	case "", "none":
		return nil, func() error { return nil }, nil
	case "otel":
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(newLogSpanExporter()))
		otel.SetTracerProvider(tp)
		p = profiler.NewOpenTelemetryAnnotator(ctx)
		cleanup = append(cleanup, func() error { return tp.Shutdown(context.Background()) })
	case "opencensus":
		exporter := newLogSpanExporter()
		octrace.RegisterExporter(exporter)
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		p = profiler.NewOpenCensusAnnotator(ctx)
		cleanup = append(cleanup, func() error {
			octrace.UnregisterExporter(exporter)
			return nil
		})
	case "pprof":
		p = profiler.NewPprofAnnotator(ctx)
		if path := v.GetString("profile-file"); path != "" {
			f, err := os.Create(path) //#nosec G304
			if err != nil {
				return nil, nil, err
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close() //nolint:errcheck,gosec // already failing
				return nil, nil, err
			}
			cleanup = append(cleanup, func() error {
				pprof.StopCPUProfile()
				return f.Close()
			})
		}
	case "callgrind":
		cp := profiler.NewCallgrindProfiler(nil)
		path := v.GetString("profile-file")
		if path == "" {
			path = DefaultCallgrindFile
		}
		if err := cp.SetFile(path); err != nil {
			return nil, nil, err
		}
		p = cp
	default:
		return nil, nil, fmt.Errorf("unknown profiler %q", kind)
	}
	if err := p.Enable(); err != nil {
		return nil, nil, err
	}
	log.Infof("profiling with %s", v.GetString("profile"))
	shutdown := func() error {
		err := p.Complete()
		for _, fn := range cleanup {
			if cerr := fn(); err == nil {
				err = cerr
			}
		}
		return err
	}
	return p, shutdown, nil
}
