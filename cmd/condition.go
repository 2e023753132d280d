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

	"github.com/spf13/cobra"

	"github.com/structarch/tna/InputParameters"
	"github.com/structarch/tna/diagrams"
	"github.com/structarch/tna/mesh"
	"github.com/structarch/tna/readfiles"
)

// conditionCmd represents the condition command
var conditionCmd = &cobra.Command{
	Use:   "condition",
	Short: "Condition the boundaries of a form diagram read from OBJ line geometry",
	Long: `
Reads OBJ line geometry, welds it into a planar form diagram, anchors the
selected support vertices and closes the boundaries with feet,

tna condition -i lines.obj -o conditioned.obj`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		anchors, _ := cmd.Flags().GetString("anchors")
		ap := processParams(cmd)
		if feet, err := cmd.Flags().GetInt("feet"); err == nil && cmd.Flags().Changed("feet") {
			ap.Feet = feet
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
		if err = form.CollapseSmallEdges(ap.CollapseTol); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println(form)
		if output != "" {
			if err = readfiles.WriteOBJ(output, form, verbose); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(conditionCmd)
	conditionCmd.Flags().StringP("input", "i", "", "OBJ file with line geometry")
	conditionCmd.Flags().StringP("output", "o", "", "OBJ file to write the conditioned diagram to")
	conditionCmd.Flags().StringP("params", "p", "", "YAML analysis parameter file")
	conditionCmd.Flags().StringP("anchors", "a", "corners", "which boundary vertices to anchor: corners or boundary")
	conditionCmd.Flags().IntP("feet", "f", 2, "foot vertices per anchor: 0, 1 or 2")
	_ = conditionCmd.MarkFlagRequired("input")
}

// buildForm reads line geometry and produces an anchored, unconditioned form
// diagram.
func buildForm(input string, ap *InputParameters.AnalysisParameters, anchors string, verbose bool) *diagrams.FormDiagram {
	lines := readfiles.ReadOBJLines(input, verbose)
	form := diagrams.NewFormDiagram()
	applyParams(form, ap)
	if err := mesh.BuildFromLines(form.Mesh, lines, ap.Precision, true); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	switch anchors {
	case "corners":
		for _, key := range form.Corners() {
			form.Vertex(key).IsAnchor = true
		}
	case "boundary":
		for _, key := range form.VerticesOnBoundary() {
			form.Vertex(key).IsAnchor = true
		}
	default:
		fmt.Printf("unknown anchor selection %q, want corners or boundary\n", anchors)
		os.Exit(1)
	}
	if verbose {
		fmt.Printf("anchored %d of %d vertices\n", len(form.Anchors()), form.NumVertices())
	}
	return form
}
