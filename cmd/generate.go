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
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/structarch/tna/diagrams"
	"github.com/structarch/tna/generate"
	"github.com/structarch/tna/readfiles"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate example form diagram geometry",
	Long: `
Writes example form diagrams to OBJ: a structured orthogonal grid, or a
Delaunay triangulation of random points,

tna generate -o grid.obj --grid 10x10
tna generate -o delaunay.obj --points 50`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		output, _ := cmd.Flags().GetString("output")
		points, _ := cmd.Flags().GetInt("points")
		seed, _ := cmd.Flags().GetInt64("seed")
		var (
			form *diagrams.FormDiagram
			err  error
		)
		if points > 0 {
			pts := generate.RandomPoints(points, 10, 10, rand.New(rand.NewSource(seed)))
			form, err = generate.Delaunay(pts)
		} else {
			var nx, ny int
			grid, _ := cmd.Flags().GetString("grid")
			if _, err = fmt.Sscanf(grid, "%dx%d", &nx, &ny); err != nil {
				fmt.Printf("unable to parse grid size %q: %s\n", grid, err)
				os.Exit(1)
			}
			form, err = generate.OrthoGrid(nx, ny, 1, 1)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println(form)
		if err = readfiles.WriteOBJ(output, form, verbose); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("output", "o", "", "OBJ file to write the generated diagram to")
	generateCmd.Flags().String("grid", "4x4", "grid size as COLSxROWS")
	generateCmd.Flags().Int("points", 0, "generate a Delaunay diagram over this many random points instead of a grid")
	generateCmd.Flags().Int64("seed", 1, "random seed for point generation")
	_ = generateCmd.MarkFlagRequired("output")
}
