// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/synth"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a planted instance (channels, similarity, ground truth)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := v.GetString("out")
			if out == "" {
				return errors.New("generate: --out is required")
			}
			width, err := intWidth(v.GetInt("int-width"))
			if err != nil {
				return err
			}
			opts := []synth.Option{
				synth.WithChannels(v.GetInt("channels")),
				synth.WithEdgeProbability(v.GetFloat64("p")),
				synth.WithLabels(v.GetInt("labels")),
				synth.WithSeed(v.GetUint64("seed")),
			}
			if v.GetBool("self-loops") {
				opts = append(opts, synth.WithSelfLoops())
			}

			in, err := synth.Planted(v.GetInt("template-nodes"), v.GetInt("world-nodes"), opts...)
			if err != nil {
				return err
			}
			man, err := in.Save(out, width)
			if err != nil {
				return err
			}
			klog.V(1).Infof("generate: wrote %d channels to %s", len(man.World), out)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d template, %d world nodes, %d channels)\n",
				out, len(in.Truth), in.Sim.Cols(), len(in.World))

			return nil
		},
	}

	f := cmd.Flags()
	f.String("out", "", "output directory")
	f.Int("template-nodes", 8, "template node count")
	f.Int("world-nodes", 24, "world node count")
	f.Int("channels", synth.DefaultChannels, "adjacency channels")
	f.Float64("p", synth.DefaultEdgeProbability, "edge probability")
	f.Int("labels", synth.DefaultLabels, "node classes")
	f.Uint64("seed", synth.DefaultSeed, "random seed")
	f.Bool("self-loops", false, "allow self loops in the world graph")
	f.Int("int-width", int(matrix.DefaultIntWidth), "integer width of matrix files (4 or 8)")

	return cmd
}

func intWidth(n int) (matrix.IntWidth, error) {
	switch w := matrix.IntWidth(n); w {
	case matrix.Int32, matrix.Int64:
		return w, nil
	default:
		return 0, errors.Wrapf(matrix.ErrBadIntWidth, "--int-width %d", n)
	}
}
