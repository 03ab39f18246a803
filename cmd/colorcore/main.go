// Command colorcore exposes the Colormap Resolver and colorindex
// builder as standalone CLI subcommands, for driving the phase outside
// of the surrounding pipeline orchestrator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rpcpool/ggcat-colorcore/internal/telemetry"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

var gitCommitSHA = ""

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx, "colorcore")
	if err != nil {
		klog.Fatal(err)
	}
	defer shutdownTelemetry()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case <-interrupt:
			fmt.Println()
			klog.Info("received interrupt signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(interrupt)
	}()

	app := &cli.App{
		Name:        "colorcore",
		Version:     gitCommitSHA,
		Description: "Rolling-hash and colormap resolution primitives for a colored de Bruijn graph pipeline.",
		Commands: []*cli.Command{
			newCmdBuildIndex(),
			newCmdResolve(),
		},
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		klog.Fatal(err)
	}
}
