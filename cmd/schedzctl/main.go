// Command schedzctl runs one scheduling scenario to completion and prints
// its timeline and per-process statistics. It is a one-shot batch runner,
// not a menu or REPL: every input is a flag, every output is a single
// report on stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coresched/schedz"
)

type procSpec struct {
	burst, priority, arrival int
	weight                   float64
}

func parseProcSpec(raw string) (procSpec, error) {
	fields := strings.Split(raw, ",")
	if len(fields) < 1 || len(fields) > 4 {
		return procSpec{}, fmt.Errorf("proc spec %q: want burst[,priority[,arrival[,weight]]]", raw)
	}
	spec := procSpec{priority: 0, arrival: 0, weight: 1.0}
	var err error
	if spec.burst, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
		return procSpec{}, fmt.Errorf("proc spec %q: burst: %w", raw, err)
	}
	if len(fields) > 1 {
		if spec.priority, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
			return procSpec{}, fmt.Errorf("proc spec %q: priority: %w", raw, err)
		}
	}
	if len(fields) > 2 {
		if spec.arrival, err = strconv.Atoi(strings.TrimSpace(fields[2])); err != nil {
			return procSpec{}, fmt.Errorf("proc spec %q: arrival: %w", raw, err)
		}
	}
	if len(fields) > 3 {
		if spec.weight, err = strconv.ParseFloat(strings.TrimSpace(fields[3]), 64); err != nil {
			return procSpec{}, fmt.Errorf("proc spec %q: weight: %w", raw, err)
		}
	}
	return spec, nil
}

func buildProcs(specs []string) ([]*schedz.Process, error) {
	procs := make([]*schedz.Process, 0, len(specs))
	for i, raw := range specs {
		spec, err := parseProcSpec(raw)
		if err != nil {
			return nil, err
		}
		procs = append(procs, schedz.NewProcess(i, spec.burst, spec.priority, spec.arrival, spec.weight))
	}
	return procs, nil
}

func parseAlgorithm(name string) (schedz.Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FIFO":
		return schedz.FIFO, nil
	case "RR":
		return schedz.RR, nil
	case "SJF":
		return schedz.SJF, nil
	case "PRIORITY":
		return schedz.PRIORITY, nil
	case "BFS":
		return schedz.BFS, nil
	case "MLFQ":
		return schedz.MLFQ, nil
	case "HPC":
		return schedz.HPC, nil
	case "WFQ":
		return schedz.WFQ, nil
	case "PRIO_PREEMPT", "PRIOPREEMPT":
		return schedz.PrioPreempt, nil
	case "NONE":
		return schedz.None, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", name)
	}
}

type flags struct {
	cores       int
	hpcThreads  int
	mainAlg     string
	hpcAlg      string
	budget      int
	mainSpecs   []string
	hpcSpecs    []string
	tickMillis  int
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:   "schedzctl",
		Short: "Run one CPU scheduling scenario to completion",
		Long: `schedzctl builds a single Container from the given flags, runs it to
completion, and prints the resulting timeline and per-process statistics.

Example:
  schedzctl --cores 1 --main-alg FIFO --budget 20 \
    --proc 3,5,0 --proc 5,7,2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}

	root.Flags().IntVar(&f.cores, "cores", 1, "number of main cores")
	root.Flags().IntVar(&f.hpcThreads, "hpc-threads", 0, "number of HPC worker threads")
	root.Flags().StringVar(&f.mainAlg, "main-alg", "FIFO", "main-queue algorithm (FIFO, RR, SJF, PRIORITY, BFS, MLFQ, HPC, WFQ, PRIO_PREEMPT, NONE)")
	root.Flags().StringVar(&f.hpcAlg, "hpc-alg", "FIFO", "HPC-queue algorithm")
	root.Flags().IntVar(&f.budget, "budget", 100, "CPU tick budget (max_cpu_time)")
	root.Flags().StringArrayVar(&f.mainSpecs, "proc", nil, "main process spec burst[,priority[,arrival[,weight]]]; repeatable")
	root.Flags().StringArrayVar(&f.hpcSpecs, "hpc-proc", nil, "HPC process spec, same format as --proc; repeatable")
	root.Flags().IntVar(&f.tickMillis, "tick-millis", 1, "wall-clock milliseconds one simulated tick is scaled to (0 runs instantly; negative falls back to the engine default)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	mainAlg, err := parseAlgorithm(f.mainAlg)
	if err != nil {
		return fmt.Errorf("main-alg: %w", err)
	}
	hpcAlg, err := parseAlgorithm(f.hpcAlg)
	if err != nil {
		return fmt.Errorf("hpc-alg: %w", err)
	}

	mainProcs, err := buildProcs(f.mainSpecs)
	if err != nil {
		return err
	}
	hpcProcs, err := buildProcs(f.hpcSpecs)
	if err != nil {
		return err
	}
	if len(mainProcs)+len(hpcProcs) == 0 {
		return fmt.Errorf("no processes given; pass at least one --proc or --hpc-proc")
	}

	obs := schedz.NewObservability()
	defer obs.Close()

	c := schedz.NewContainer(schedz.Config{
		NbCores:      f.cores,
		NbHPCThreads: f.hpcThreads,
		MainAlg:      mainAlg,
		HPCAlg:       hpcAlg,
		MainProcs:    mainProcs,
		HPCProcs:     hpcProcs,
		MaxCPUTicks:  f.budget,
		TickDuration: time.Duration(f.tickMillis) * time.Millisecond,
		Obs:          obs,
	})

	errs := c.Run(ctx)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, "error:", e)
	}

	printReport(c)
	return nil
}

func printReport(c *schedz.Container) {
	fmt.Println("TIMELINE")
	fmt.Println("core\tproc\tstart\tlength\tpreempted")
	for _, e := range c.Timeline().Sorted() {
		fmt.Printf("%d\t%d\t%d\t%d\t%v\n", e.CoreID, e.ProcID, e.StartTick, e.Length, e.Preempted)
	}

	fmt.Println()
	fmt.Println("PROCESSES")
	fmt.Println("id\tburst\tpriority\tarrival\tremaining\tfirst_response\tend_time\tmlfq_level\tpreempted")
	main, hpc := c.Snapshots()
	for _, s := range append(main, hpc...) {
		fmt.Printf("%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%v\n",
			s.ID, s.BurstTime, s.Priority, s.ArrivalTime, s.RemainingTime,
			s.FirstResponse, s.EndTime, s.MLFQLevel, s.WasPreempted)
	}

	rCount, rMean, rStddev := c.Observability().ResponseStats()
	tCount, tMean, tStddev := c.Observability().TurnaroundStats()
	fmt.Println()
	fmt.Printf("response time:   n=%d mean=%.2f stddev=%.2f\n", rCount, rMean, rStddev)
	fmt.Printf("turnaround time: n=%d mean=%.2f stddev=%.2f\n", tCount, tMean, tStddev)
}
