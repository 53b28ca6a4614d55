package main

import (
	"log/slog"
	"os"

	"streampix/effect"
	"streampix/parallel"

	"github.com/alecthomas/kong"
)

var cli struct {
	Run     effect.CLICmd `cmd:"" help:"Apply a pixel-stream pipeline to every image in a folder"`
	Workers int           `help:"Number of parallel workers, 0 uses all CPUs" default:"0"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("streampix"),
		kong.Description("Stream-oriented image manipulation"))

	pool := parallel.Start(cli.Workers)
	if err := kctx.Run(pool.Do, pool.Wait); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
