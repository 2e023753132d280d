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
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/structarch/tna/equilibrium"
	"github.com/structarch/tna/mesh"
	"github.com/structarch/tna/readfiles"
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Condition a form diagram and solve vertical equilibrium",
	Long: `
Runs the full pipeline: read OBJ line geometry, condition the boundaries,
apply vertical loads, scale the force densities to the target height and
write the equilibrated diagram,

tna solve -i lines.obj -o solved.obj --zmax 3`,
	Run: func(cmd *cobra.Command, args []string) {
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		anchors, _ := cmd.Flags().GetString("anchors")
		load, _ := cmd.Flags().GetFloat64("load")
		ap := processParams(cmd)
		if cmd.Flags().Changed("feet") {
			ap.Feet, _ = cmd.Flags().GetInt("feet")
		}
		if cmd.Flags().Changed("zmax") {
			ap.ZMax, _ = cmd.Flags().GetFloat64("zmax")
		}
		form := buildForm(input, ap, anchors, verbose)
		mode, err := footMode(ap.Feet)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err = form.UpdateBoundaries(mode); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		for _, key := range form.VerticesWhere(func(key int, v *mesh.Vertex) bool {
			return !v.IsExternal
		}) {
			form.Vertex(key).Pz = load
		}
		scale, err := equilibrium.VerticalFromZmax(form, ap.ZMax, ap.KMax, ap.XTol)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		zmax := 0.0
		for _, key := range form.VertexKeys() {
			if z := form.Vertex(key).Z; z > zmax {
				zmax = z
			}
		}
		fmt.Println(form)
		fmt.Printf("scale: %g\n", scale)
		fmt.Printf("zmax: %g\n", zmax)
		// Both residual metrics are reported; they measure different things
		// and are known not to agree.
		fmt.Printf("residual (diagram): %g\n", form.Residual())
		if output != "" {
			if err = readfiles.WriteOBJ(output, form, verbose); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("input", "i", "", "OBJ file with line geometry")
	solveCmd.Flags().StringP("output", "o", "", "OBJ file to write the solved diagram to")
	solveCmd.Flags().StringP("params", "p", "", "YAML analysis parameter file")
	solveCmd.Flags().StringP("anchors", "a", "corners", "which boundary vertices to anchor: corners or boundary")
	solveCmd.Flags().IntP("feet", "f", 2, "foot vertices per anchor: 0, 1 or 2")
	solveCmd.Flags().Float64("zmax", 3, "target height for vertical equilibrium")
	solveCmd.Flags().Float64("load", 1, "vertical point load applied to every non-external vertex")
	solveCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
	_ = solveCmd.MarkFlagRequired("input")
}
