// Command scinfo prints the dispatch configuration of the compute engine
// and runs a set of self-checks against it.
//
// Usage:
//
//	scinfo [flags] [check-name ...]
//
// Without arguments it runs every check for every element type.
//
// Examples:
//
//	scinfo
//	scinfo -type f32 dot norm2
//	scinfo -size 100000 -mode multi -workers 8 single=multi
//	scinfo -generic -parallel
//	scinfo -list
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-tensor/arena"
	"github.com/cwbudde/algo-tensor/engine"
	"github.com/cwbudde/algo-tensor/internal/cpu"
	"github.com/cwbudde/algo-tensor/internal/logging"
	"github.com/cwbudde/algo-tensor/linalg"
	"github.com/cwbudde/algo-tensor/pool"
	"github.com/cwbudde/algo-tensor/tensor"
)

var typeNames = map[string]tensor.ElementType{
	"f16": tensor.F16,
	"f32": tensor.F32,
	"f64": tensor.F64,
}

var modeNames = map[string]engine.Mode{
	"auto":   engine.Auto,
	"single": engine.SingleThread,
	"multi":  engine.MultiThread,
}

type options struct {
	size     int
	types    []tensor.ElementType
	mode     engine.Mode
	workers  int
	generic  bool
	parallel bool
	scratch  int
}

type result struct {
	check check
	typ   tensor.ElementType
	value string
	err   error
}

func main() {
	size := flag.Int("size", 4096, "vector length for the reduce and single=multi checks")
	typ := flag.String("type", "all", "element type: f16, f32, f64 or all")
	mode := flag.String("mode", "auto", "execution mode: auto, single or multi")
	workers := flag.Int("workers", 0, "worker goroutines (0 = one per logical CPU)")
	generic := flag.Bool("generic", false, "use the scalar kernels only")
	parallel := flag.Bool("parallel", false, "run checks concurrently, one workspace each")
	scratch := flag.Int("scratch", 64, "scratch arena block size in MiB")
	list := flag.Bool("list", false, "list available checks")
	verbose := flag.Bool("v", false, "log engine warnings and debug output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scinfo [flags] [check-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints CPU features and kernel selection, then runs self-checks.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scinfo -type f32 dot norm2\n")
		fmt.Fprintf(os.Stderr, "  scinfo -size 100000 -mode multi single=multi\n")
		fmt.Fprintf(os.Stderr, "  scinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts, err := parseOptions(*size, *typ, *mode, *workers, *generic, *parallel, *scratch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	selected := resolveChecks(flag.Args())
	if len(selected) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching checks\n")
		os.Exit(1)
	}

	p := pool.New(pool.WithWorkers(opts.workers))
	defer func() { _ = p.Close() }()

	engOpts := []engine.Option{engine.WithPool(p)}
	if opts.generic {
		engOpts = append(engOpts, engine.WithGenericKernels())
	}
	eng := engine.New(engOpts...)

	printConfig(eng, opts)
	results := runChecks(eng, selected, opts)
	if failed := printResults(results); failed > 0 {
		fmt.Fprintf(os.Stderr, "%d check(s) failed\n", failed)
		_ = p.Close()
		os.Exit(1)
	}
}

func parseOptions(size int, typ, mode string, workers int, generic, parallel bool, scratchMiB int) (options, error) {
	opts := options{size: size, workers: workers, generic: generic, parallel: parallel}
	if size < 2 {
		return opts, fmt.Errorf("size must be at least 2, got %d", size)
	}
	if scratchMiB <= 0 {
		return opts, fmt.Errorf("scratch must be positive, got %d", scratchMiB)
	}
	opts.scratch = scratchMiB << 20

	m, ok := modeNames[strings.ToLower(mode)]
	if !ok {
		return opts, fmt.Errorf("unknown mode %q", mode)
	}
	opts.mode = m

	typ = strings.ToLower(typ)
	if typ == "all" {
		opts.types = []tensor.ElementType{tensor.F16, tensor.F32, tensor.F64}
		return opts, nil
	}
	t, ok := typeNames[typ]
	if !ok {
		return opts, fmt.Errorf("unknown type %q", typ)
	}
	opts.types = []tensor.ElementType{t}
	return opts, nil
}

func printList() {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func resolveChecks(names []string) []check {
	if len(names) == 0 {
		return checks
	}
	byName := make(map[string]check, len(checks))
	for _, c := range checks {
		byName[c.name] = c
	}
	var out []check
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		c, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown check %q (use -list to see available)\n", name)
			continue
		}
		out = append(out, c)
	}
	return out
}

func printConfig(eng *engine.Engine, opts options) {
	f := cpu.DetectFeatures()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Architecture", f.Architecture},
		{"Logical CPUs", fmt.Sprint(f.LogicalCPUs)},
		{"SSE2/AVX/AVX2/AVX-512", fmt.Sprintf("%t/%t/%t/%t", f.HasSSE2, f.HasAVX, f.HasAVX2, f.HasAVX512)},
		{"NEON", fmt.Sprint(f.HasNEON)},
		{"Kernels", fmt.Sprintf("%s (%d lanes)", eng.KernelName(), eng.Lanes())},
		{"Workers", fmt.Sprint(eng.Workers().Size())},
		{"Threshold", fmt.Sprint(eng.Threshold())},
		{"Mode", opts.mode.String()},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write config: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
	fmt.Println()
}

// runChecks runs every check for every type. Each job owns its arena and
// workspace, so parallel jobs share only the engine.
func runChecks(eng *engine.Engine, selected []check, opts options) []result {
	results := make([]result, 0, len(selected)*len(opts.types))
	for _, c := range selected {
		for _, t := range opts.types {
			results = append(results, result{check: c, typ: t})
		}
	}

	job := func(i int) {
		r := &results[i]

		alloc := arena.New(arena.WithBlockCapacity(opts.scratch))
		defer alloc.Free()
		w := linalg.NewWorkspace(
			linalg.WithEngine(eng),
			linalg.WithMode(opts.mode),
			linalg.WithScratchCapacity(opts.scratch),
		)
		defer w.Close()

		r.value, r.err = r.check.run(w, alloc, r.typ, opts.size)
	}

	if !opts.parallel {
		for i := range results {
			job(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(max(cpu.LogicalCPUs(), 1))
	for i := range results {
		g.Go(func() error {
			job(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printResults(results []result) int {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	failed := 0
	if _, err := fmt.Fprintf(tw, "Check\tType\tResult\tStatus\n-----\t----\t------\t------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return len(results)
	}
	for _, r := range results {
		status := "ok"
		if r.err != nil {
			status = "FAIL: " + r.err.Error()
			failed++
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.check.name, r.typ, r.value, status); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return failed
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
	return failed
}
