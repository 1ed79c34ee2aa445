// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MGMATCH"

// newRootCmd wires the subcommands; logFlags carries the klog flag set (may be nil).
func newRootCmd(logFlags *flag.FlagSet) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfgFile string
	root := &cobra.Command{
		Use:           "mgmatch",
		Short:         "Multi-channel graph matching with Frank-Wolfe restarts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "config %s", cfgFile)
				}
			}

			return errors.Wrap(v.BindPFlags(cmd.Flags()), "bind flags")
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	if logFlags != nil {
		root.PersistentFlags().AddGoFlagSet(logFlags)
	}

	root.AddCommand(newRunCmd(v), newGenerateCmd(v))

	return root
}
