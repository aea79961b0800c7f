package scorer

import "errors"

// ErrNoQueries reports aggregation over an empty query set. Zero-query runs
// must be handled by the caller instead of averaging nothing.
var ErrNoQueries = errors.New("no queries to aggregate")

// UnknownGroup is the bucket for queries whose grouping key is empty.
const UnknownGroup = "unknown"

// AggregateMetrics is the arithmetic mean of each QueryMetrics field across
// a set of queries, plus the number of queries contributing.
type AggregateMetrics struct {
	Count     int             `json:"count"`
	MRR       float64         `json:"mrr"`
	DocMRR    float64         `json:"doc_mrr"`
	NDCG      float64         `json:"ndcg"`
	Recall    map[int]float64 `json:"recall"`
	Precision map[int]float64 `json:"precision"`
}

// GroupAggregate pairs a grouping key with the aggregate over its members.
type GroupAggregate struct {
	Key     string           `json:"key"`
	Metrics AggregateMetrics `json:"metrics"`
}

// Aggregate averages each metric field across all queries. It is recomputed
// from scratch on every call; nothing is maintained incrementally.
func Aggregate(queries []QueryMetrics) (AggregateMetrics, error) {
	if len(queries) == 0 {
		return AggregateMetrics{}, ErrNoQueries
	}

	agg := AggregateMetrics{
		Count:     len(queries),
		Recall:    make(map[int]float64),
		Precision: make(map[int]float64),
	}
	for _, q := range queries {
		agg.MRR += q.MRR
		agg.DocMRR += q.DocMRR
		agg.NDCG += q.NDCG
		for k, v := range q.Recall {
			agg.Recall[k] += v
		}
		for k, v := range q.Precision {
			agg.Precision[k] += v
		}
	}

	n := float64(len(queries))
	agg.MRR /= n
	agg.DocMRR /= n
	agg.NDCG /= n
	for k := range agg.Recall {
		agg.Recall[k] /= n
	}
	for k := range agg.Precision {
		agg.Precision[k] /= n
	}

	return agg, nil
}

// GroupBy partitions queries by keyFn and aggregates each partition. Groups
// appear in first-occurrence order of their key, so the output is
// deterministic for deterministic input order. An empty key falls into the
// UnknownGroup bucket rather than being dropped.
func GroupBy[T any](items []T, keyFn func(T) string, metricsFn func(T) QueryMetrics) ([]GroupAggregate, error) {
	order := make([]string, 0)
	grouped := make(map[string][]QueryMetrics)

	for _, item := range items {
		key := keyFn(item)
		if key == "" {
			key = UnknownGroup
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], metricsFn(item))
	}

	groups := make([]GroupAggregate, 0, len(order))
	for _, key := range order {
		agg, err := Aggregate(grouped[key])
		if err != nil {
			return nil, err
		}
		groups = append(groups, GroupAggregate{Key: key, Metrics: agg})
	}
	return groups, nil
}
