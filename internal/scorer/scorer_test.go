package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(pairs ...[2]interface{}) []RetrievedItem {
	out := make([]RetrievedItem, len(pairs))
	for i, p := range pairs {
		out[i] = RetrievedItem{
			Rank:      i,
			Score:     1.0 - float64(i)*0.1,
			DocID:     p[0].(string),
			SectionID: p[1].(int),
		}
	}
	return out
}

func TestScoreQueryMatchAtRankZero(t *testing.T) {
	results := items([2]interface{}{"A", 1}, [2]interface{}{"B", 2})
	m := ScoreQuery(results, Judgment{DocID: "A", SectionID: 1}, DefaultCutoffs())

	assert.Equal(t, 1.0, m.MRR)
	assert.Equal(t, 1.0, m.DocMRR)
	assert.Equal(t, 1.0, m.NDCG)
	assert.Equal(t, 1.0, m.Recall[1])
	assert.Equal(t, 1.0, m.Precision[1])
}

func TestScoreQueryNoMatch(t *testing.T) {
	results := items([2]interface{}{"B", 1}, [2]interface{}{"C", 2})
	m := ScoreQuery(results, Judgment{DocID: "A", SectionID: 1}, DefaultCutoffs())

	assert.Equal(t, 0.0, m.MRR)
	assert.Equal(t, 0.0, m.DocMRR)
	assert.Equal(t, 0.0, m.NDCG)
	for _, k := range DefaultCutoffs().Recall {
		assert.Equal(t, 0.0, m.Recall[k], "recall@%d", k)
	}
	for _, k := range DefaultCutoffs().Precision {
		assert.Equal(t, 0.0, m.Precision[k], "precision@%d", k)
	}
}

func TestScoreQuerySectionMissDocumentHit(t *testing.T) {
	results := items(
		[2]interface{}{"A", 2},
		[2]interface{}{"A", 5},
		[2]interface{}{"B", 1},
	)
	m := ScoreQuery(results, Judgment{DocID: "A", SectionID: 5}, DefaultCutoffs())

	assert.Equal(t, 0.5, m.MRR)
	assert.Equal(t, 1.0, m.DocMRR)
	assert.Equal(t, 0.0, m.Recall[1])
	assert.Equal(t, 1.0, m.Recall[3])
	assert.Equal(t, 0.0, m.Precision[1])
	assert.InDelta(t, 1.0/3.0, m.Precision[3], 1e-12)
}

func TestScoreQueryNDCGDiscountsByRank(t *testing.T) {
	results := items(
		[2]interface{}{"B", 1},
		[2]interface{}{"A", 1},
	)
	m := ScoreQuery(results, Judgment{DocID: "A", SectionID: 1}, DefaultCutoffs())

	// Relevant item at rank 1: 1/log2(3).
	assert.InDelta(t, 0.6309297535714575, m.NDCG, 1e-12)
}

func TestScoreQueryEmptyResults(t *testing.T) {
	m := ScoreQuery(nil, Judgment{DocID: "A", SectionID: 1}, DefaultCutoffs())

	assert.Equal(t, 0.0, m.MRR)
	assert.Equal(t, 0.0, m.DocMRR)
	assert.Equal(t, 0.0, m.NDCG)
	assert.Equal(t, 0.0, m.Recall[10])
	assert.Equal(t, 0.0, m.Precision[5])
}

func TestScoreQueryShortListKeepsNominalDenominator(t *testing.T) {
	// Two results, one exact match, precision@5 must divide by 5.
	results := items([2]interface{}{"A", 1}, [2]interface{}{"B", 1})
	m := ScoreQuery(results, Judgment{DocID: "A", SectionID: 1}, DefaultCutoffs())

	assert.InDelta(t, 0.2, m.Precision[5], 1e-12)

	// And with zero matches it is 0/k, not 0/len(results).
	none := ScoreQuery(items([2]interface{}{"B", 1}), Judgment{DocID: "A", SectionID: 1}, DefaultCutoffs())
	assert.Equal(t, 0.0, none.Precision[5])
}

func TestAggregateMeans(t *testing.T) {
	cutoffs := DefaultCutoffs()
	perfect := ScoreQuery(items([2]interface{}{"A", 1}), Judgment{DocID: "A", SectionID: 1}, cutoffs)
	miss := ScoreQuery(items([2]interface{}{"B", 1}), Judgment{DocID: "A", SectionID: 1}, cutoffs)

	agg, err := Aggregate([]QueryMetrics{perfect, miss})
	require.NoError(t, err)

	assert.Equal(t, 2, agg.Count)
	assert.Equal(t, 0.5, agg.MRR)
	assert.Equal(t, 0.5, agg.NDCG)
	assert.Equal(t, 0.5, agg.Recall[1])
	assert.InDelta(t, 0.1, agg.Precision[5], 1e-12)

	uniform, err := Aggregate([]QueryMetrics{perfect, perfect, perfect})
	require.NoError(t, err)
	assert.Equal(t, 1.0, uniform.MRR)
}

func TestAggregateEmptyInput(t *testing.T) {
	_, err := Aggregate(nil)
	require.ErrorIs(t, err, ErrNoQueries)
}

type typedResult struct {
	queryType string
	metrics   QueryMetrics
}

func TestGroupByAggregatesPerKey(t *testing.T) {
	results := []typedResult{
		{queryType: "extractive", metrics: QueryMetrics{MRR: 1.0}},
		{queryType: "extractive", metrics: QueryMetrics{MRR: 0.5}},
		{queryType: "abstractive", metrics: QueryMetrics{MRR: 0.0}},
	}

	groups, err := GroupBy(results,
		func(r typedResult) string { return r.queryType },
		func(r typedResult) QueryMetrics { return r.metrics })
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "extractive", groups[0].Key)
	assert.Equal(t, 2, groups[0].Metrics.Count)
	assert.Equal(t, 0.75, groups[0].Metrics.MRR)

	assert.Equal(t, "abstractive", groups[1].Key)
	assert.Equal(t, 1, groups[1].Metrics.Count)
	assert.Equal(t, 0.0, groups[1].Metrics.MRR)
}

func TestGroupByRoutesEmptyKeyToUnknown(t *testing.T) {
	results := []typedResult{
		{queryType: "", metrics: QueryMetrics{MRR: 1.0}},
		{queryType: "extractive", metrics: QueryMetrics{MRR: 0.0}},
	}

	groups, err := GroupBy(results,
		func(r typedResult) string { return r.queryType },
		func(r typedResult) QueryMetrics { return r.metrics })
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, UnknownGroup, groups[0].Key)
	assert.Equal(t, 1.0, groups[0].Metrics.MRR)
}
