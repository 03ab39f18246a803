package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/rpcpool/ggcat-colorcore/colorindex"
	"github.com/rpcpool/ggcat-colorcore/colormap"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func newCmdResolve() *cli.Command {
	var colormapBase string
	var outDir string
	var queriesCount uint64
	var bucketsCount int
	var workers int
	var debug bool
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Run the colormap resolver over a set of counter bucket files.",
		ArgsUsage: "<input bucket file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "colormap",
				Usage:       "Path (base, without extension) to the colorindex file",
				Required:    true,
				Destination: &colormapBase,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "Output directory for resolved destination buckets",
				Required:    true,
				Destination: &outDir,
			},
			&cli.Uint64Flag{
				Name:        "queries-count",
				Usage:       "Total number of query sequences across the job",
				Required:    true,
				Destination: &queriesCount,
			},
			&cli.IntFlag{
				Name:        "buckets-count",
				Usage:       "Number of destination buckets (defaults to the number of input buckets)",
				Destination: &bucketsCount,
			},
			&cli.IntFlag{
				Name:        "workers",
				Usage:       "Max parallel workers (defaults to GOMAXPROCS)",
				Destination: &workers,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "Dump the resolved Input and the output bucket paths",
				Destination: &debug,
			},
		},
		Action: func(c *cli.Context) error {
			inputBuckets := c.Args().Slice()
			if len(inputBuckets) == 0 {
				return cli.Exit("resolve requires at least one input bucket file", 1)
			}
			if err := os.MkdirAll(outDir, 0o777); err != nil {
				return cli.Exit(fmt.Sprintf("creating output directory: %s", err), 1)
			}

			in := colormap.Input{
				ColormapOpener: colorindex.FileOpener{Base: colormapBase},
				InputBuckets:   inputBuckets,
				TempDir:        outDir,
				QueriesCount:   queriesCount,
				BucketsCount:   bucketsCount,
				MaxWorkers:     workers,
			}
			if debug {
				spew.Dump(in)
			}

			startedAt := time.Now()
			paths, err := colormap.Resolve(c.Context, in)
			if err != nil {
				return cli.Exit(fmt.Sprintf("resolve: %s", err), 1)
			}

			var totalBytes int64
			for _, p := range paths {
				if fi, statErr := os.Stat(p); statErr == nil {
					totalBytes += fi.Size()
				}
				klog.Infof("resolve: wrote %s", filepath.Clean(p))
			}
			klog.Infof("resolve: done in %s, %s total across %d buckets",
				time.Since(startedAt).Round(time.Millisecond), humanize.Bytes(uint64(totalBytes)), len(paths))
			if debug {
				spew.Dump(paths)
			}
			return nil
		},
	}
}
