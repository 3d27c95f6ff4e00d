package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
)

func backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered rendering backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range backend.Available() {
				r, err := backend.Get(name, 16, 16)
				if err != nil {
					return err
				}
				conv := "pixel"
				if r.Convention() != graphview.PixelSpace {
					conv = "ndc"
				}
				_ = r.Close()
				fmt.Fprintf(out, "%-10s %s\n", name, conv)
			}
			return nil
		},
	}
}
