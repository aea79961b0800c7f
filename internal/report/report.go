// Package report renders run reports for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mwiater/ragmark/internal/runner"
	"github.com/mwiater/ragmark/internal/scorer"
)

// Render writes a human-readable summary of a run report.
func Render(w io.Writer, r *runner.Report) {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	warn := color.New(color.FgYellow)

	header.Fprintf(w, "Run %s — suite %q\n", r.RunID, r.Suite)
	dim.Fprintf(w, "provider=%s model=%s topK=%d threshold=%.2f tokens=[%d,%d] duration=%dms\n\n",
		r.Provider, r.Model, r.TopK, r.Chunking.SimilarityThreshold, r.Chunking.MinTokens, r.Chunking.MaxTokens, r.DurationMs)

	header.Fprintln(w, "Overall")
	renderAggregate(w, r.Cutoffs, []scorer.GroupAggregate{{Key: "all", Metrics: r.Overall}})

	if len(r.Groups) > 1 || (len(r.Groups) == 1 && r.Groups[0].Key != scorer.UnknownGroup) {
		fmt.Fprintln(w)
		header.Fprintln(w, "By query type")
		renderAggregate(w, r.Cutoffs, r.Groups)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintln(w)
		warn.Fprintf(w, "Skipped (no judgment): %d\n", len(r.Skipped))
	}
	if len(r.Failures) > 0 {
		fmt.Fprintln(w)
		warn.Fprintf(w, "Failures: %d\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s: %s\n", f.QueryID, f.Error)
		}
	}
}

func renderAggregate(w io.Writer, cutoffs scorer.Cutoffs, groups []scorer.GroupAggregate) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "group\tn\tmrr\tdoc_mrr\tndcg")
	for _, k := range sortedKs(cutoffs.Recall) {
		fmt.Fprintf(tw, "\tr@%d", k)
	}
	for _, k := range sortedKs(cutoffs.Precision) {
		fmt.Fprintf(tw, "\tp@%d", k)
	}
	fmt.Fprintln(tw)

	for _, g := range groups {
		m := g.Metrics
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f", g.Key, m.Count, m.MRR, m.DocMRR, m.NDCG)
		for _, k := range sortedKs(cutoffs.Recall) {
			fmt.Fprintf(tw, "\t%.4f", m.Recall[k])
		}
		for _, k := range sortedKs(cutoffs.Precision) {
			fmt.Fprintf(tw, "\t%.4f", m.Precision[k])
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func sortedKs(ks []int) []int {
	out := append([]int(nil), ks...)
	sort.Ints(out)
	return out
}
