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
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/will-rowe/seqsketch/src/misc"
	"github.com/will-rowe/seqsketch/src/pipeline"
	"github.com/will-rowe/seqsketch/src/version"
)

// the command line arguments
var (
	fastaFiles *[]string // FASTA files to sketch
	fastaDir   *string   // directory of FASTA files to sketch
	alphabet   *string   // alphabet of the FASTA files
)

// the recognised FASTA extensions
var fastaExts = []string{"fa", "fasta", "fna", "faa"}

// the sketch command (used by cobra)
var sketchCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Sketch the sequences of FASTA files and compare every pair against the edit distance",
	Long:  `Sketch the sequences of FASTA files and compare every pair against the edit distance`,
	Run: func(cmd *cobra.Command, args []string) {
		runSketch(cmd)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	flags := sketchCmd.Flags()
	fastaFiles = flags.StringSliceP("fasta", "i", nil, "FASTA files to sketch (can be gzipped)")
	fastaDir = flags.String("fastaDir", "", "directory of FASTA files to sketch")
	alphabet = flags.String("alphabet", "", "alphabet of the input (dna4|dna5|protein|generic), default is the smallest that fits --alphabetSize")
	addSketchFlags(flags)
	RootCmd.AddCommand(sketchCmd)
}

// a function to check user supplied parameters
func sketchParamCheck() (*pipeline.Info, error) {
	files := append([]string{}, *fastaFiles...)
	if *fastaDir != "" {
		dirFiles, err := misc.CollectFiles(*fastaDir, fastaExts)
		if err != nil {
			return nil, err
		}
		files = append(files, dirFiles...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no FASTA files supplied - run `seqsketch sketch --help` for more info on the command")
	}
	for _, file := range files {
		if err := misc.CheckFile(file); err != nil {
			return nil, err
		}
		if err := misc.CheckExt(file, fastaExts); err != nil {
			return nil, err
		}
	}
	info := newInfo()
	info.Input = pipeline.InputCmd{FastaFiles: files, Alphabet: *alphabet}
	return info, info.Validate()
}

/*
The main function for the sketch command
*/
func runSketch(cmd *cobra.Command) {
	if logFH := startLogging(); logFH != nil {
		defer logFH.Close()
	}
	log.Printf("this is seqsketch (version %s)", version.GetVersion())
	log.Printf("starting the sketch subcommand")
	log.Printf("checking parameters...")
	info, err := sketchParamCheck()
	misc.ErrorCheck(err)
	logSketchParams(info)
	log.Printf("\tFASTA files: %d", len(info.Input.FastaFiles))
	runPipeline(cmd, info)
}
