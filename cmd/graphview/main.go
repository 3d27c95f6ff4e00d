// Command graphview renders graph scenes to PNG with any registered
// backend.
//
// Usage:
//
//	graphview render --scene scene.yaml --backend pipeline --output graph.png
//	graphview backends
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphview"
	_ "github.com/gogpu/graphview/backend/pipeline"
	_ "github.com/gogpu/graphview/backend/raster"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "graphview:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "graphview",
		Short:         "Render node-link graphs with pan, zoom and drag",
		Version:       graphview.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("graphview {{ .Version }}\n")
	cmd.AddCommand(
		renderCmd(),
		backendsCmd(),
	)
	return cmd
}
