/*
 * main.go, part of gochem-enm.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//anm computes the normal modes of the anisotropic network model of a structure
//given as an XYZ file, prints the lowest ones, and optionally exports them.
package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/rmera/enm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

//config has everything the program needs to run.
type config struct {
	opts      *enm.Options
	nmodes    int     //modes to print, 0 for all
	out       string  //JSON export, compressed if it ends in .zst
	plot      string  //PNG with the spectrum
	animate   string  //multi-frame XYZ animating one mode
	mode      int     //the mode to animate
	amplitude float64 //largest displacement in the animation, in A
	verbose   bool
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "anm [flags] structure.xyz",
		Short: "Normal modes of the anisotropic network model of a structure",
		Long: `anm builds the anisotropic network model (ANM) of the structure in an XYZ file,
joining with springs all atoms closer than a cutoff, and prints its lowest normal modes.
Options can also be given in a YAML file (--config) or as ANM_* environment variables,
e.g. ANM_CUTOFF or ANM_MASS_WEIGHTED. Flags take precedence over both.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(v)
			if err != nil {
				return err
			}
			return run(cfg, args[0], cmd.OutOrStdout())
		},
	}
	def := enm.DefaultOptions()
	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "YAML config file")
	f.Float64("cutoff", def.Cutoff, "springs join atoms closer than this, in A")
	f.Float64("gamma", def.Gamma, "spring constant")
	f.Bool("mass-weighted", def.MassWeighted, "mass-weight the Hessian and report frequencies in cm^-1")
	f.Int("cpus", def.Cpus, "goroutines used to build the Hessian")
	f.Int("nmodes", 10, "number of modes to print, 0 for all")
	f.String("out", "", "write the modes as JSON to this file, zstd-compressed if it ends in .zst")
	f.String("plot", "", "plot the spectrum to this PNG file")
	f.String("animate", "", "write an animation of a mode to this multi-frame XYZ file")
	f.Int("mode", 0, "mode to animate, 0 is the lowest")
	f.Float64("amplitude", 2.0, "largest displacement in the animation, in A")
	f.BoolP("verbose", "v", false, "verbose output")
	if err := v.BindPFlags(f); err != nil {
		panic(err) //can only happen with a nil flag set.
	}
	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("ANM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}
	return nil
}

func configFrom(v *viper.Viper) (*config, error) {
	O := enm.DefaultOptions()
	O.Cutoff = v.GetFloat64("cutoff")
	O.Gamma = v.GetFloat64("gamma")
	O.MassWeighted = v.GetBool("mass-weighted")
	O.Cpus = v.GetInt("cpus")
	cfg := &config{
		opts:      O,
		nmodes:    v.GetInt("nmodes"),
		out:       v.GetString("out"),
		plot:      v.GetString("plot"),
		animate:   v.GetString("animate"),
		mode:      v.GetInt("mode"),
		amplitude: v.GetFloat64("amplitude"),
		verbose:   v.GetBool("verbose"),
	}
	if cfg.nmodes < 0 {
		return nil, fmt.Errorf("nmodes can't be negative: %d", cfg.nmodes)
	}
	return cfg, nil
}
