// Package scorer computes rank-based retrieval metrics for single queries
// and aggregates them across a benchmark run.
package scorer

import "math"

// Judgment is the ground-truth relevance judgment for one query: the
// document and section the query should retrieve. One relevant item per
// query is assumed throughout (the nDCG ideal is pinned to rank 0).
type Judgment struct {
	DocID     string `json:"doc_id" yaml:"doc_id"`
	SectionID int    `json:"section_id" yaml:"section_id"`
}

// RetrievedItem is one ranked search result. Rank is 0-based, ascending by
// decreasing score.
type RetrievedItem struct {
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
	DocID     string  `json:"doc_id"`
	SectionID int     `json:"section_id"`
	Text      string  `json:"text,omitempty"`
}

// Cutoffs holds the k values for recall@k and precision@k.
type Cutoffs struct {
	Recall    []int `json:"recall"`
	Precision []int `json:"precision"`
}

// DefaultCutoffs returns the canonical cutoff sets used in run reports.
func DefaultCutoffs() Cutoffs {
	return Cutoffs{
		Recall:    []int{1, 3, 5, 10},
		Precision: []int{1, 3, 5},
	}
}

// QueryMetrics is the fixed set of scalar metrics computed for one query.
type QueryMetrics struct {
	MRR       float64         `json:"mrr"`
	DocMRR    float64         `json:"doc_mrr"`
	NDCG      float64         `json:"ndcg"`
	Recall    map[int]float64 `json:"recall"`
	Precision map[int]float64 `json:"precision"`
}

// ScoreQuery evaluates a ranked result list against a single judgment.
//
// MRR and nDCG use the exact match (document and section); DocMRR relaxes
// the match to document only. nDCG is binary single-relevant over the full
// list: DCG = 1/log2(i+2) at the first exact-match rank i, IDCG = 1.
// Precision@k always divides by the nominal k, so a backend that returns
// fewer than k results is penalized rather than excused.
func ScoreQuery(results []RetrievedItem, truth Judgment, cutoffs Cutoffs) QueryMetrics {
	exactRank := -1
	docRank := -1
	for i, item := range results {
		if exactRank < 0 && item.DocID == truth.DocID && item.SectionID == truth.SectionID {
			exactRank = i
		}
		if docRank < 0 && item.DocID == truth.DocID {
			docRank = i
		}
		if exactRank >= 0 && docRank >= 0 {
			break
		}
	}

	metrics := QueryMetrics{
		Recall:    make(map[int]float64, len(cutoffs.Recall)),
		Precision: make(map[int]float64, len(cutoffs.Precision)),
	}

	if exactRank >= 0 {
		metrics.MRR = 1.0 / float64(exactRank+1)
		metrics.NDCG = 1.0 / math.Log2(float64(exactRank)+2)
	}
	if docRank >= 0 {
		metrics.DocMRR = 1.0 / float64(docRank+1)
	}

	for _, k := range cutoffs.Recall {
		if exactRank >= 0 && exactRank < k {
			metrics.Recall[k] = 1.0
		} else {
			metrics.Recall[k] = 0.0
		}
	}
	for _, k := range cutoffs.Precision {
		matches := 0
		for i := 0; i < len(results) && i < k; i++ {
			if results[i].DocID == truth.DocID && results[i].SectionID == truth.SectionID {
				matches++
			}
		}
		metrics.Precision[k] = float64(matches) / float64(k)
	}

	return metrics
}
