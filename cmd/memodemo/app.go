package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/goforj/memo"
	"github.com/goforj/memo/memoprom"
)

// NewApp builds the memodemo command. Every flag can also be set from the
// YAML file at cfgPath under the "memodemo" key.
func NewApp(cfgPath string) *cli.Command {
	sources := func(key string) cli.ValueSourceChain {
		if cfgPath == "" {
			return cli.NewValueSourceChain()
		}
		return cli.NewValueSourceChain(
			yaml.YAML("memodemo."+key, altsrc.StringSourcer(cfgPath)),
		)
	}

	return &cli.Command{
		Name:      "memodemo",
		Usage:     "memoize a computation and call it repeatedly",
		UsageText: "memodemo [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "cache key; the computed value is its length",
				Sources: sources("key"),
				Value:   "key1",
			},
			&cli.DurationFlag{
				Name:    "ttl",
				Usage:   "how long a computed value stays valid",
				Sources: sources("ttl"),
				Value:   5 * time.Second,
			},
			&cli.IntFlag{
				Name:    "calls",
				Aliases: []string{"n"},
				Usage:   "number of get-or-compute calls",
				Sources: sources("calls"),
				Value:   2,
			},
			&cli.DurationFlag{
				Name:    "pause",
				Usage:   "sleep between calls",
				Sources: sources("pause"),
			},
			&cli.StringFlag{
				Name:    "driver",
				Usage:   "entry store: map, memory, otter or null",
				Sources: sources("driver"),
				Value:   string(memo.DriverMap),
			},
			&cli.BoolFlag{
				Name:    "sync",
				Usage:   "use the concurrency-safe cache",
				Sources: sources("sync"),
			},
			&cli.BoolFlag{
				Name:    "metrics",
				Usage:   "print operation counters after the run",
				Sources: sources("metrics"),
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Writer
	if out == nil {
		out = os.Stdout
	}

	driver, ok := memo.ParseDriver(cmd.String("driver"))
	if !ok {
		return fmt.Errorf("unknown driver %q", cmd.String("driver"))
	}
	calls := int(cmd.Int("calls"))
	if calls < 1 {
		return fmt.Errorf("calls must be at least 1, got %d", calls)
	}
	key := cmd.String("key")
	ttl := cmd.Duration("ttl")
	pause := cmd.Duration("pause")

	log.WithFields(log.Fields{
		"key":    key,
		"ttl":    ttl,
		"calls":  calls,
		"driver": driver,
		"sync":   cmd.Bool("sync"),
	}).Debug("memodemo starting")

	var opts []memo.Option
	var reg *prometheus.Registry
	if cmd.Bool("metrics") {
		reg = prometheus.NewRegistry()
		obs, err := memoprom.NewObserver(reg, "")
		if err != nil {
			return err
		}
		opts = append(opts, memo.WithObserver(obs))
	}

	base := memo.NewWithStore(memo.NewStore[int](driver), opts...)
	var cache memo.MemoAPI[string, int] = base
	if cmd.Bool("sync") {
		cache = memo.NewSync(base)
	}

	computed := 0
	calculate := func(_ context.Context, k string) (int, error) {
		computed++
		fmt.Fprintln(out, "Calculating value for key: "+k)
		return len(k), nil
	}

	for i := 1; i <= calls; i++ {
		if i > 1 && pause > 0 {
			time.Sleep(pause)
		}
		before := computed
		value, err := cache.GetOrComputeCtx(ctx, key, calculate, ttl)
		if err != nil {
			return fmt.Errorf("call %d: %w", i, err)
		}
		label := fmt.Sprintf("Result %d", i)
		if computed == before {
			label += " (from cache)"
		}
		fmt.Fprintf(out, "%s: %d\n", label, value)
	}

	if reg != nil {
		return writeCounters(out, reg)
	}
	return nil
}

// writeCounters prints every counter sample in reg, one per line.
func writeCounters(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		log.Debug(line)
		fmt.Fprintln(w, line)
	}
	return nil
}
