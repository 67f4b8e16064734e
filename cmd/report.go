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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/will-rowe/seqsketch/src/misc"
	"github.com/will-rowe/seqsketch/src/pipeline"
	"github.com/will-rowe/seqsketch/src/reporting"
)

// the command line arguments
var (
	runInfo     *string // the run.info file of a finished run
	reportPlots *bool   // redraw the distance plots
	showTimings *bool   // print the phase timings
)

// the report command (used by cobra)
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise a finished run",
	Long:  `Load the run info saved by the experiment or sketch command and print the per algorithm summary`,
	Run: func(cmd *cobra.Command, args []string) {
		runReport()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	runInfo = reportCmd.Flags().StringP("info", "i", "", "run info file ("+pipeline.InfoFile+") written by a run - required")
	reportPlots = reportCmd.Flags().Bool("plot", false, "redraw the distance plots next to the run info")
	showTimings = reportCmd.Flags().Bool("timings", false, "print the time spent in each phase")
	reportCmd.MarkFlagRequired("info")
	RootCmd.AddCommand(reportCmd)
}

/*
The main function for the report command
*/
func runReport() {
	misc.ErrorCheck(misc.CheckFile(*runInfo))
	info := &pipeline.Info{}
	misc.ErrorCheck(info.Load(*runInfo))
	if info.Results == nil {
		misc.ErrorCheck(fmt.Errorf("%v holds no results", *runInfo))
	}
	fmt.Printf("seqsketch %v, seed %d, %d sequences, %d pairs\n", info.Version, info.Seed, len(info.Results.IDs), len(info.Results.Pairs))
	reporting.PrintSummary(os.Stdout, info.Results)
	if *showTimings {
		fmt.Println("phase\tcalls\ttotal\tmean")
		for _, phase := range info.Timings {
			fmt.Printf("%v\t%d\t%v\t%v\n", phase.Name, phase.Calls, phase.Total, phase.Mean())
		}
	}
	if *reportPlots {
		dir := filepath.Dir(*runInfo)
		for _, alg := range info.Results.Algorithms {
			misc.ErrorCheck(reporting.PlotDistances(info.Results, alg, filepath.Join(dir, reporting.PlotFileName(alg.Name))))
		}
	}
}
