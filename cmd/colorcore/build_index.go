package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rpcpool/ggcat-colorcore/colorindex"
	"github.com/schollz/progressbar/v3"
	"github.com/tidwall/hashmap"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

// newCmdBuildIndex builds a colorindex from a plain-text source mapping
// each color id to its sorted color indices, one line per color id in
// ascending order: "colorID:idx1,idx2,idx3". Real deployments source
// this from the unitig/color-merging pass this codebase treats as an
// external collaborator (§1); this command exists to exercise and
// inspect the on-disk format standalone.
func newCmdBuildIndex() *cli.Command {
	var inputPath string
	var outputBase string
	return &cli.Command{
		Name:      "build-index",
		Usage:     "Build a colorindex file from a plain-text color mapping source.",
		ArgsUsage: "<input.txt> <output-base>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return cli.Exit("build-index requires <input.txt> <output-base>", 1)
			}
			inputPath = c.Args().Get(0)
			outputBase = c.Args().Get(1)
			return buildIndex(inputPath, outputBase)
		},
	}
}

func buildIndex(inputPath, outputBase string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("opening input: %s", err), 1)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return cli.Exit(fmt.Sprintf("stat input: %s", err), 1)
	}
	bar := progressbar.DefaultBytes(fi.Size(), "building colorindex")
	countingReader := progressbar.NewReader(f, bar)

	w, err := colorindex.Create(outputBase)
	if err != nil {
		return cli.Exit(fmt.Sprintf("creating colorindex: %s", err), 1)
	}

	// seenColorIDs catches a duplicated color id with a precise error
	// before it reaches Put's coarser "non-contiguous" rejection.
	var seenColorIDs hashmap.Map[uint32, int]

	scanner := bufio.NewScanner(&countingReader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	indicesTotal := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		colorID, indices, err := parseColorLine(line)
		if err != nil {
			return cli.Exit(fmt.Sprintf("%s:%d: %s", inputPath, lineNo, err), 1)
		}
		if prevLine, dup := seenColorIDs.Get(colorID); dup {
			return cli.Exit(fmt.Sprintf("%s:%d: color id %d already defined on line %d", inputPath, lineNo, colorID, prevLine), 1)
		}
		seenColorIDs.Set(colorID, lineNo)
		if err := w.Put(colorID, indices); err != nil {
			return cli.Exit(fmt.Sprintf("%s:%d: %s", inputPath, lineNo, err), 1)
		}
		indicesTotal += len(indices)
	}
	if err := scanner.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("reading input: %s", err), 1)
	}
	_ = bar.Finish()

	if err := w.Finalize(); err != nil {
		return cli.Exit(fmt.Sprintf("finalizing colorindex: %s", err), 1)
	}
	klog.Infof("build-index: wrote %s colors (%s color indices total) to %s",
		humanize.Comma(int64(seenColorIDs.Len())), humanize.Comma(int64(indicesTotal)), outputBase)
	return nil
}

func parseColorLine(line string) (uint32, []uint32, error) {
	colorStr, rest, ok := strings.Cut(line, ":")
	if !ok {
		return 0, nil, fmt.Errorf("missing ':' separator")
	}
	colorID64, err := strconv.ParseUint(colorStr, 10, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid color id: %w", err)
	}

	var indices []uint32
	rest = strings.TrimSpace(rest)
	if rest != "" {
		for _, part := range strings.Split(rest, ",") {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid color index %q: %w", part, err)
			}
			indices = append(indices, uint32(v))
		}
	}
	return uint32(colorID64), indices, nil
}
