// Copyright 2026 The go-libtess2 Authors. All rights reserved.
// Use of this source code is governed by the SGI Free Software License B
// that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/go-libtess2/libtess2"
)

// subCommand pairs a command with the configuration it reads its flags
// from.  Flags take precedence over TESS_* environment variables, which
// take precedence over the --config file.
type subCommand struct {
	Cmd  *cobra.Command
	Conf *viper.Viper

	EnvPrefix string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tess",
		Short: "Tessellate polygons into triangles, convex polygons or contours",
		Long: `
tess reads closed contours, computes the region they enclose under a
winding rule and writes it as triangles, convex polygons or boundary
contours.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden by values set with environment variables and flags.")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log tessellation statistics.")

	subcommands := []*subCommand{newRunCmd(), newVersionCmd()}
	for _, sc := range subcommands {
		root.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		if err := bindFlags(sc.Conf, sc.Cmd.Flags(), root.PersistentFlags()); err != nil {
			panic(err)
		}
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
		sc.Conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		sc.Conf.AutomaticEnv()
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		for _, sc := range subcommands {
			if sc.Cmd != cmd {
				continue
			}
			if cfg := sc.Conf.GetString("config"); cfg != "" {
				sc.Conf.SetConfigFile(cfg)
				if err := sc.Conf.ReadInConfig(); err != nil {
					return errors.Wrap(err, "reading config")
				}
			}
			return setupLogger(sc.Conf.GetBool("verbose"))
		}
		return nil
	}
	return root
}

func bindFlags(conf *viper.Viper, sets ...*pflag.FlagSet) error {
	for _, fs := range sets {
		if err := conf.BindPFlags(fs); err != nil {
			return errors.Wrap(err, "binding flags")
		}
	}
	return nil
}

func setupLogger(verbose bool) error {
	var l *zap.Logger
	var err error
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		l, err = cfg.Build()
	}
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	libtess2.SetLogger(l)
	return nil
}
