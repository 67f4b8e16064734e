// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/will-rowe/seqsketch/src/misc"
	"github.com/will-rowe/seqsketch/src/pipeline"
	"github.com/will-rowe/seqsketch/src/version"
)

// the command line arguments
var generatorParams pipeline.GeneratorCmd

// the experiment command (used by cobra)
var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Simulate sequences along a phylogeny and benchmark the sketches against the edit distance",
	Long: `Simulate sequences along a phylogeny and benchmark the sketches against the edit distance.

Sequences are generated in groups, each group is derived from a random ancestor by point
mutations (and optionally block permutations). Every ingroup pair is compared by edit distance
and by each sketch, and the Spearman rank correlation of the two is reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		runExperiment(cmd)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	flags := experimentCmd.Flags()
	flags.IntVarP(&generatorParams.NumSeqs, "numSeqs", "n", 200, "number of sequences to generate")
	flags.IntVarP(&generatorParams.SeqLen, "seqLength", "l", 256, "length of the ancestral sequences")
	flags.BoolVar(&generatorParams.FixLen, "fixLength", false, "pad or truncate every generated sequence to --seqLength")
	flags.Float64Var(&generatorParams.MinMutation, "minMutationRate", 0, "minimum per symbol mutation rate of a group")
	flags.Float64Var(&generatorParams.MaxMutation, "maxMutationRate", 0.5, "maximum per symbol mutation rate of a group")
	flags.Float64Var(&generatorParams.BlockMutation, "blockMutationRate", 0, "probability of permuting the blocks of a derived sequence")
	flags.IntVar(&generatorParams.MinBlocks, "minBlocks", 2, "minimum number of blocks for a permutation")
	flags.IntVar(&generatorParams.MaxBlocks, "maxBlocks", 4, "maximum number of blocks for a permutation")
	flags.IntVarP(&generatorParams.GroupSize, "groupSize", "g", 2, "number of sequences in a group")
	flags.StringVar(&generatorParams.Shape, "phylogenyShape", "path", "shape of the phylogeny within a group (path|tree|star|pair)")
	addSketchFlags(flags)
	RootCmd.AddCommand(experimentCmd)
}

// a function to check user supplied parameters
func experimentParamCheck() (*pipeline.Info, error) {
	info := newInfo()
	info.Generator = generatorParams
	return info, info.Validate()
}

/*
The main function for the experiment command
*/
func runExperiment(cmd *cobra.Command) {
	if logFH := startLogging(); logFH != nil {
		defer logFH.Close()
	}
	log.Printf("this is seqsketch (version %s)", version.GetVersion())
	log.Printf("starting the experiment subcommand")

	// check the supplied parameters and then log some stuff
	log.Printf("checking parameters...")
	info, err := experimentParamCheck()
	misc.ErrorCheck(err)
	logSketchParams(info)
	log.Printf("\tsequences: %d of length %d", info.Generator.NumSeqs, info.Generator.SeqLen)
	log.Printf("\tphylogeny: %v (groups of %d)", info.Generator.Shape, info.Generator.GroupSize)
	log.Printf("\tmutation rate: %v - %v", info.Generator.MinMutation, info.Generator.MaxMutation)
	runPipeline(cmd, info)
}
