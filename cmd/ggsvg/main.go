// Command ggsvg converts SVG files into a simplified SVG subset or renders
// them to PNG.
//
// Usage:
//
//	ggsvg [flags] <in.svg|in.svgz|-> <out.svg|out.png|->
//
// The output format follows the output file extension: ".png" renders the
// document, anything else writes normalized SVG. "-" reads from standard
// input or writes to standard output.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
