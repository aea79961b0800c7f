// Package runner orchestrates a benchmark run: it feeds suite queries
// through retrieval, scores each against its judgment, and aggregates the
// results into a persisted run report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/ragmark/internal/appconfig"
	"github.com/mwiater/ragmark/internal/chunker"
	"github.com/mwiater/ragmark/internal/corpus"
	"github.com/mwiater/ragmark/internal/embed"
	"github.com/mwiater/ragmark/internal/index"
	"github.com/mwiater/ragmark/internal/logging"
	"github.com/mwiater/ragmark/internal/scorer"
)

// ErrNothingScored reports a run in which no query produced metrics: every
// query was either skipped for missing truth or failed.
var ErrNothingScored = errors.New("no queries were scored")

// Searcher is the retrieval backend consumed by an evaluation run.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]scorer.RetrievedItem, error)
}

// QueryResult is the per-query outcome recorded in a run report.
type QueryResult struct {
	QueryID string                `json:"query_id"`
	Type    string                `json:"type,omitempty"`
	Metrics scorer.QueryMetrics   `json:"metrics"`
	Truth   scorer.Judgment       `json:"truth"`
	TopHit  *scorer.RetrievedItem `json:"top_hit,omitempty"`
}

// Failure records one query whose retrieval failed. Failures never abort
// the batch; they are reported alongside the successes.
type Failure struct {
	QueryID string `json:"query_id"`
	Error   string `json:"error"`
}

// Report is the persisted record of one benchmark run.
type Report struct {
	RunID      string                  `json:"run_id"`
	Timestamp  string                  `json:"timestamp"`
	Suite      string                  `json:"suite"`
	Provider   string                  `json:"provider"`
	Model      string                  `json:"model"`
	Chunking   chunker.Options         `json:"chunking"`
	Cutoffs    scorer.Cutoffs          `json:"cutoffs"`
	TopK       int                     `json:"top_k"`
	Overall    scorer.AggregateMetrics `json:"overall"`
	Groups     []scorer.GroupAggregate `json:"groups"`
	Queries    []QueryResult           `json:"queries"`
	Skipped    []string                `json:"skipped,omitempty"`
	Failures   []Failure               `json:"failures,omitempty"`
	DurationMs int64                   `json:"duration_ms"`
}

// Progress reports evaluation progress to an optional observer.
type Progress struct {
	Done    int
	Total   int
	QueryID string
}

// Evaluate runs every judged query in the suite against the searcher with a
// bounded worker pool. Queries without a judgment are logged and skipped
// before scoring; per-query retrieval failures are collected instead of
// aborting the batch. Result order follows suite order regardless of worker
// completion order.
func Evaluate(ctx context.Context, cfg *appconfig.Config, suite corpus.Suite, searcher Searcher, onProgress func(Progress)) (*Report, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	provider, err := cfg.Provider()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{
		RunID:     uuid.NewString(),
		Timestamp: start.UTC().Format(time.RFC3339),
		Suite:     suite.Name,
		Provider:  provider.Name,
		Model:     provider.Model,
		Chunking:  cfg.Chunking,
		Cutoffs:   cfg.Cutoffs(),
		TopK:      cfg.TopKLimit(),
	}

	judged := make([]corpus.Query, 0, len(suite.Queries))
	for _, q := range suite.Queries {
		if q.Truth == nil {
			logging.LogQuery("skip", q.ID, "reason=missing-truth")
			report.Skipped = append(report.Skipped, q.ID)
			continue
		}
		judged = append(judged, q)
	}

	type outcome struct {
		result QueryResult
		err    error
	}
	outcomes := make([]outcome, len(judged))

	jobs := make(chan int)
	var done sync.WaitGroup
	var progressMu sync.Mutex
	completed := 0

	workers := cfg.WorkerCount()
	if workers > len(judged) {
		workers = len(judged)
	}
	for w := 0; w < workers; w++ {
		done.Add(1)
		go func() {
			defer done.Done()
			for i := range jobs {
				q := judged[i]
				results, err := searcher.Search(ctx, q.Text, cfg.TopKLimit())
				if err != nil {
					outcomes[i] = outcome{err: err}
				} else {
					metrics := scorer.ScoreQuery(results, *q.Truth, cfg.Cutoffs())
					result := QueryResult{
						QueryID: q.ID,
						Type:    q.Type,
						Metrics: metrics,
						Truth:   *q.Truth,
					}
					if len(results) > 0 {
						top := results[0]
						result.TopHit = &top
					}
					outcomes[i] = outcome{result: result}
				}

				progressMu.Lock()
				completed++
				current := completed
				progressMu.Unlock()
				if onProgress != nil {
					onProgress(Progress{Done: current, Total: len(judged), QueryID: q.ID})
				}
			}
		}()
	}

	for i := range judged {
		jobs <- i
	}
	close(jobs)
	done.Wait()

	metricsList := make([]scorer.QueryMetrics, 0, len(judged))
	for i, o := range outcomes {
		if o.err != nil {
			logging.LogQuery("fail", judged[i].ID, fmt.Sprintf("error=%v", o.err))
			report.Failures = append(report.Failures, Failure{QueryID: judged[i].ID, Error: o.err.Error()})
			continue
		}
		report.Queries = append(report.Queries, o.result)
		metricsList = append(metricsList, o.result.Metrics)
	}

	if len(metricsList) == 0 {
		return nil, fmt.Errorf("%w (%d skipped, %d failed)", ErrNothingScored, len(report.Skipped), len(report.Failures))
	}

	overall, err := scorer.Aggregate(metricsList)
	if err != nil {
		return nil, err
	}
	report.Overall = overall

	groups, err := scorer.GroupBy(report.Queries,
		func(r QueryResult) string { return r.Type },
		func(r QueryResult) scorer.QueryMetrics { return r.Metrics })
	if err != nil {
		return nil, err
	}
	report.Groups = groups
	report.DurationMs = time.Since(start).Milliseconds()

	return report, nil
}

// Run composes a full evaluation from config: load the suite, open the
// index with the configured embedding provider, evaluate, and persist the
// report.
func Run(ctx context.Context, cfg *appconfig.Config, onProgress func(Progress)) (*Report, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	suite, err := corpus.LoadSuite(cfg.SuitePath)
	if err != nil {
		return nil, err
	}

	provider, err := cfg.Provider()
	if err != nil {
		return nil, err
	}
	embedder, err := embed.New(provider, cfg.RequestTimeout())
	if err != nil {
		return nil, err
	}

	searcher, err := index.Open(cfg.IndexPath, embedder)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("[EVAL] Suite %q: %d queries against %d indexed chunks", suite.Name, len(suite.Queries), searcher.Len())

	report, err := Evaluate(ctx, cfg, suite, searcher, onProgress)
	if err != nil {
		return nil, err
	}

	path, err := Save(report, cfg.ResultsDirPath())
	if err != nil {
		return nil, err
	}
	logging.LogEvent("[EVAL] Run %s complete: %d scored, %d skipped, %d failed, report %s",
		report.RunID, len(report.Queries), len(report.Skipped), len(report.Failures), path)

	return report, nil
}
