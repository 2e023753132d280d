/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/structarch/tna/InputParameters"
	"github.com/structarch/tna/diagrams"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tna",
	Short: "Form diagram conditioning and equilibrium tools",
	Long: `
Builds planar form diagrams from line geometry, conditions their boundaries
with support feet, and runs force-density equilibrium on the result.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tna.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "report progress while reading and writing files")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".tna" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".tna")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// processParams loads the analysis parameters, starting from the defaults and
// overlaying the YAML file named by --params when given.
func processParams(cmd *cobra.Command) *InputParameters.AnalysisParameters {
	ap := InputParameters.NewAnalysisParameters()
	paramsFile, _ := cmd.Flags().GetString("params")
	if paramsFile == "" {
		return ap
	}
	data, err := ioutil.ReadFile(paramsFile)
	if err != nil {
		fmt.Printf("unable to read parameter file: %s\n", err)
		os.Exit(1)
	}
	if err = ap.Parse(data); err != nil {
		fmt.Printf("unable to parse parameter file: %s\n", err)
		os.Exit(1)
	}
	return ap
}

// applyParams copies the parameters onto the diagram and its edge defaults.
// Must run before faces are added so new edges inherit the bounds.
func applyParams(form *diagrams.FormDiagram, ap *InputParameters.AnalysisParameters) {
	form.Name = ap.Title
	form.FeetScale = ap.FeetScale
	form.FeetAlpha = ap.FeetAlpha
	form.FeetTol = ap.FeetTol
	form.DefaultEdge.QMin = ap.QMin
	form.DefaultEdge.QMax = ap.QMax
	form.DefaultEdge.LMin = ap.LMin
	form.DefaultEdge.LMax = ap.LMax
	form.DefaultEdge.FMin = ap.FMin
	form.DefaultEdge.FMax = ap.FMax
}

func footMode(feet int) (diagrams.FootMode, error) {
	switch feet {
	case 0:
		return diagrams.FeetNone, nil
	case 1:
		return diagrams.FeetSingle, nil
	case 2:
		return diagrams.FeetDouble, nil
	}
	return 0, fmt.Errorf("feet must be 0, 1 or 2, have %d", feet)
}
