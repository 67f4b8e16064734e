// Package reporting holds the results of a run and writes them out as CSV tables, plain text
// summaries and distance plots
package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/will-rowe/seqsketch/src/seqio"
	"github.com/will-rowe/seqsketch/src/stats"
)

// AlgorithmResult holds everything recorded for one sketching algorithm
type AlgorithmResult struct {
	Name string

	// Dists holds the sketch distance of every ingroup pair, one row per rerun
	Dists [][]float64

	// Spearman holds the correlation with the edit distances of every rerun
	Spearman []float64
	Mean     float64
	StdDev   float64

	// the correlation of the per pair median and mean distances, only set for several reruns
	MedianSpearman float64
	MeanSpearman   float64
}

// Reruns returns the number of completed reruns
func (r *AlgorithmResult) Reruns() int {
	return len(r.Spearman)
}

// PairMeans returns the distance of every pair averaged over the reruns
func (r *AlgorithmResult) PairMeans() []float64 {
	return r.pairSummary(stats.Mean)
}

// PairMedians returns the median distance of every pair over the reruns
func (r *AlgorithmResult) PairMedians() []float64 {
	return r.pairSummary(stats.Median)
}

func (r *AlgorithmResult) pairSummary(summary func([]float64) float64) []float64 {
	if len(r.Dists) == 0 {
		return nil
	}
	out := make([]float64, len(r.Dists[0]))
	column := make([]float64, len(r.Dists))
	for p := range out {
		for rerun, dists := range r.Dists {
			column[rerun] = dists[p]
		}
		out[p] = summary(column)
	}
	return out
}

// PairAlignment records the optimal alignment of an ingroup pair
type PairAlignment struct {
	Cigar   string
	LCSDist int
	RunsA   []int // match runs between the mutations of the first sequence
	RunsB   []int
}

// Results is the output of a run, the pair order is shared by every distance vector
type Results struct {
	IDs        []string
	Pairs      []seqio.Pair
	EditDists  []float64
	Algorithms []*AlgorithmResult

	// only set when the mutation runs were requested
	Alignments []PairAlignment
}

// WriteDists writes one line per ingroup pair: the sequence indices, the edit distance and the
// (rerun averaged) distance of each algorithm
func WriteDists(w io.Writer, res *Results) error {
	cw := csv.NewWriter(w)
	header := []string{"s1", "s2", "ED"}
	means := make([][]float64, len(res.Algorithms))
	for i, alg := range res.Algorithms {
		header = append(header, alg.Name)
		means[i] = alg.PairMeans()
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for p, pair := range res.Pairs {
		record := []string{strconv.Itoa(pair.I), strconv.Itoa(pair.J), formatFloat(res.EditDists[p])}
		for i := range res.Algorithms {
			value := ""
			if p < len(means[i]) {
				value = formatFloat(means[i][p])
			}
			record = append(record, value)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes one line per algorithm with its correlation statistics
func WriteSummary(w io.Writer, res *Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"algorithm", "spearman_mean", "spearman_sd", "reruns", "spearman_median_dist", "spearman_mean_dist"}); err != nil {
		return err
	}
	for _, alg := range res.Algorithms {
		record := []string{
			alg.Name,
			formatFloat(alg.Mean),
			formatFloat(alg.StdDev),
			strconv.Itoa(alg.Reruns()),
			formatFloat(alg.MedianSpearman),
			formatFloat(alg.MeanSpearman),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMutationRuns writes the alignment of every ingroup pair: the edit and indel distances,
// the CIGAR and the match runs of each sequence separated by semicolons
func WriteMutationRuns(w io.Writer, res *Results) error {
	if len(res.Alignments) != len(res.Pairs) {
		return fmt.Errorf("%d alignments for %d pairs", len(res.Alignments), len(res.Pairs))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"s1", "s2", "ED", "LCS_dist", "cigar", "runs_s1", "runs_s2"}); err != nil {
		return err
	}
	for p, pair := range res.Pairs {
		aln := res.Alignments[p]
		record := []string{
			strconv.Itoa(pair.I),
			strconv.Itoa(pair.J),
			formatFloat(res.EditDists[p]),
			strconv.Itoa(aln.LCSDist),
			aln.Cigar,
			joinInts(aln.RunsA),
			joinInts(aln.RunsB),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = strconv.Itoa(x)
	}
	return strings.Join(s, ";")
}

// PrintSummary prints a tab separated summary line for each algorithm
func PrintSummary(w io.Writer, res *Results) {
	fmt.Fprintf(w, "algorithm\tspearman\tsd\treruns\n")
	for _, alg := range res.Algorithms {
		fmt.Fprintf(w, "%v\t%.4f\t%.4f\t%d\n", alg.Name, alg.Mean, alg.StdDev, alg.Reruns())
	}
}

// PlotDistances saves a scatter plot of edit distance against the (rerun averaged) sketch
// distance of an algorithm
func PlotDistances(res *Results, alg *AlgorithmResult, fileName string) error {
	means := alg.PairMeans()
	if len(means) != len(res.EditDists) {
		return fmt.Errorf("%v has %d distances for %d pairs", alg.Name, len(means), len(res.EditDists))
	}
	points := make(plotter.XYs, len(means))
	for i := range points {
		points[i].X = res.EditDists[i]
		points[i].Y = means[i]
	}
	distPlot := plot.New()
	distPlot.Title.Text = fmt.Sprintf("%v (spearman %.3f)", alg.Name, alg.Mean)
	distPlot.X.Label.Text = "edit distance"
	distPlot.Y.Label.Text = "sketch distance"
	if err := plotutil.AddScatters(distPlot, alg.Name, points); err != nil {
		return err
	}
	return distPlot.Save(8*vg.Inch, 8*vg.Inch, fileName)
}

// PlotFileName turns an algorithm name into a file name
func PlotFileName(name string) string {
	var replacer = strings.NewReplacer("/", "__", "\t", "__", " ", "_")
	return replacer.Replace(name) + ".png"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
