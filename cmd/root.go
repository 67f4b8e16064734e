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
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mholt/archiver"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/will-rowe/seqsketch/src/misc"
	"github.com/will-rowe/seqsketch/src/pipeline"
	"github.com/will-rowe/seqsketch/src/progress"
	"github.com/will-rowe/seqsketch/src/reporting"
	"github.com/will-rowe/seqsketch/src/version"
)

// the command line arguments
var (
	proc          *int    // number of processors to use
	profiling     *bool   // create profile for go pprof
	logFile       *string // log to file instead of STDOUT
	defaultOutDir = "./seqsketch-" + string(time.Now().Format("20060102150405"))
)

// the arguments shared by the experiment and sketch commands, these are bound to both flag sets
var (
	sketchParams pipeline.SketchCmd
	outDir       string // directory to write the results to
	seed         uint64 // seed for the sequence generator and the hash tables
	algorithms   []string
	plotDists    bool // plot edit distance against sketch distance
	archiveOut   bool // bundle the output directory
	mutationRuns bool // align every ingroup pair and write the match runs
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "seqsketch",
	Short: "measure how well sequence sketches approximate the edit distance",
	Long: `
#####################################################################################
		seqsketch: sketching sequences for edit distance estimation
#####################################################################################

 seqsketch embeds sequences into fixed size sketches (MinHash, Weighted MinHash,
 Ordered MinHash, Tensor Sketch and Tensor Slide Sketch) and compares the sketch
 distances with the true edit distances using the Spearman rank correlation.

 Sequences are either simulated along a phylogeny (experiment) or read from FASTA
 files (sketch).`,
}

/*
  A function to add all child commands to the root command and sets flags appropriately
*/
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

/*
A function to initalise the command line arguments
*/
func init() {
	proc = RootCmd.PersistentFlags().IntP("processors", "p", 0, "number of processors to use (0 = all)")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile seqsketch using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("log", "", "filename for log file, default = STDOUT")
}

// addSketchFlags binds the sketching and output flags of a command
func addSketchFlags(flags *pflag.FlagSet) {
	flags.IntVarP(&sketchParams.AlphabetSize, "alphabetSize", "a", 4, "size of the alphabet (number of distinct symbols)")
	flags.IntVarP(&sketchParams.KmerSize, "kmerSize", "k", 4, "size of the k-mers used by the MinHash sketches")
	flags.IntVarP(&sketchParams.EmbedDim, "embedDim", "d", 16, "dimension of the sketches")
	flags.IntVarP(&sketchParams.TupleLen, "tupleLength", "t", 3, "length of the ordered tuples (Ordered MinHash and the tensor sketches)")
	flags.IntVarP(&sketchParams.WindowSize, "windowSize", "w", 32, "size of the sliding window (Tensor Slide Sketch)")
	flags.IntVarP(&sketchParams.Stride, "stride", "s", 8, "stride of the sliding window (Tensor Slide Sketch)")
	flags.IntVar(&sketchParams.MaxLen, "maxLength", 0, "maximum sequence length (Weighted and Ordered MinHash), 0 = twice the sequence length")
	flags.IntVarP(&sketchParams.Reruns, "reruns", "r", 1, "number of times each algorithm is run with new random tables")
	flags.StringVar(&sketchParams.HashAlg, "hashAlg", "uniform", "hash algorithm for the MinHash tables (uniform|crc32)")
	flags.StringVar(&sketchParams.Dist, "dist", "l2", "distance metric for the tensor sketches (l1|l2|exp|hamming)")
	flags.StringVar(&sketchParams.MinHashDist, "minHashDist", "hamming", "distance metric for the MinHash sketches (l1|l2|exp|hamming)")
	flags.StringVar(&sketchParams.Transform, "transform", "none", "transform applied to the tensor sketches (none|atan|disc)")
	flags.IntVar(&sketchParams.NumBins, "numBins", 256, "number of bins for --transform=disc")
	flags.StringSliceVar(&algorithms, "algorithms", nil, fmt.Sprintf("algorithms to run (default all of %v)", pipeline.AlgorithmNames))
	flags.Uint64Var(&seed, "seed", 0, "random seed, 0 = time based")
	flags.StringVarP(&outDir, "outDir", "o", defaultOutDir, "directory to write the results to")
	flags.BoolVar(&plotDists, "plot", false, "plot edit distance against sketch distance for every algorithm")
	flags.BoolVar(&archiveOut, "archive", false, "bundle the output directory into a tar.gz")
	flags.BoolVar(&mutationRuns, "mutationRuns", false, "align every ingroup pair and write the CIGAR and match runs to "+pipeline.RunsFile)
}

// newInfo copies the shared flags into the runtime info
func newInfo() *pipeline.Info {
	// set number of processors to use
	if *proc <= 0 || *proc > runtime.NumCPU() {
		*proc = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(*proc)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &pipeline.Info{
		Version:      version.GetVersion(),
		NumProc:      *proc,
		Profiling:    *profiling,
		Seed:         seed,
		OutDir:       outDir,
		Plot:         plotDists,
		Archive:      archiveOut,
		MutationRuns: mutationRuns,
		Algorithms:   algorithms,
		Sketch:       sketchParams,
	}
}

// logSketchParams logs the shared parameters of a run
func logSketchParams(info *pipeline.Info) {
	log.Printf("\tprocessors: %d", info.NumProc)
	log.Printf("\tseed: %d", info.Seed)
	log.Printf("\talphabet size: %d", info.Sketch.AlphabetSize)
	log.Printf("\tk-mer size: %d", info.Sketch.KmerSize)
	log.Printf("\tembedding dimension: %d", info.Sketch.EmbedDim)
	log.Printf("\ttuple length: %d", info.Sketch.TupleLen)
	log.Printf("\twindow size / stride: %d / %d", info.Sketch.WindowSize, info.Sketch.Stride)
	log.Printf("\treruns: %d", info.Sketch.Reruns)
	if info.MutationRuns {
		log.Printf("\twriting mutation runs")
	}
	if len(info.Algorithms) != 0 {
		log.Printf("\talgorithms: %v", info.Algorithms)
	}
}

// runPipeline runs the experiment pipeline with progress reporting, prints the summary and saves the
// flags used. It is shared by the experiment and sketch commands.
func runPipeline(cmd *cobra.Command, info *pipeline.Info) {
	// set up profiling
	if *profiling {
		defer profile.Start(profile.ProfilePath(info.OutDir)).Stop()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	info.AttachContext(ctx)
	// bars only make sense on a terminal, otherwise the phase counts go to the log
	var observer progress.Observer = &progress.Counter{}
	wait := func() {}
	if fi, err := os.Stderr.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		bars := progress.NewBars(os.Stderr)
		observer, wait = bars, bars.Wait
	}
	info.AttachObserver(observer)

	log.Printf("running the pipeline...")
	res, err := pipeline.Experiment(info)
	wait()
	misc.ErrorCheck(err)
	reporting.PrintSummary(os.Stdout, res)

	flags := misc.FlagValues(cmd.Flags(), true)
	misc.ErrorCheck(os.WriteFile(filepath.Join(info.OutDir, "flags"), []byte(flags), 0644))
	if info.Archive {
		archive := filepath.Clean(info.OutDir) + ".tar.gz"
		os.Remove(archive)
		misc.ErrorCheck(archiver.Archive([]string{info.OutDir}, archive))
		log.Printf("\tarchived results to %v", archive)
	}
	log.Print(misc.PrintMemUsage())
	log.Println("finished")
}

// startLogging sends the log to the --log file, if one was given
func startLogging() *os.File {
	if *logFile == "" {
		log.SetOutput(os.Stdout)
		return nil
	}
	logFH := misc.StartLogging(*logFile)
	log.SetOutput(logFH)
	return logFH
}
