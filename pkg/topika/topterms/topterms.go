// Package topterms selects the highest-weighted terms per topic from a
// fitted model's term table.
package topterms

import (
	"sort"

	"github.com/cognicore/topika/pkg/topika/lda"
)

// Row is one (topic, term) cell of a model's term table.
type Row struct {
	Topic  int
	Term   string
	Weight float64
}

// FromModel flattens a model's topic-term distributions into rows,
// one per topic and vocabulary term.
func FromModel(m *lda.Model) []Row {
	rows := make([]Row, 0, m.K*len(m.Vocab))
	for topic, terms := range m.TermWeights(len(m.Vocab)) {
		for _, tw := range terms {
			rows = append(rows, Row{Topic: topic, Term: tw.Term, Weight: tw.Weight})
		}
	}
	return rows
}

// TopN returns, for each topic present in rows, the n rows with the
// largest weights. A negative n selects the |n| smallest weights
// instead. Ties at the cutoff weight are all kept, so a group can hold
// more than |n| rows. Within a group the input order is preserved.
// n = 0 returns no rows.
func TopN(rows []Row, n int) []Row {
	if n == 0 || len(rows) == 0 {
		return nil
	}

	bottom := n < 0
	if bottom {
		n = -n
	}

	groups, order := groupByTopic(rows)

	var out []Row
	for _, topic := range order {
		group := groups[topic]
		cut, ok := cutoff(group, n, bottom)
		if !ok {
			out = append(out, group...)
			continue
		}
		for _, r := range group {
			if bottom {
				if r.Weight <= cut {
					out = append(out, r)
				}
			} else if r.Weight >= cut {
				out = append(out, r)
			}
		}
	}
	return out
}

// groupByTopic splits rows by topic, remembering first-seen order.
func groupByTopic(rows []Row) (map[int][]Row, []int) {
	groups := make(map[int][]Row)
	var order []int
	for _, r := range rows {
		if _, seen := groups[r.Topic]; !seen {
			order = append(order, r.Topic)
		}
		groups[r.Topic] = append(groups[r.Topic], r)
	}
	return groups, order
}

// cutoff finds the weight of the n-th ranked row in the requested
// direction. ok is false when the group has n rows or fewer, in which
// case every row qualifies.
func cutoff(group []Row, n int, bottom bool) (float64, bool) {
	if len(group) <= n {
		return 0, false
	}
	weights := make([]float64, len(group))
	for i, r := range group {
		weights[i] = r.Weight
	}
	if bottom {
		sort.Float64s(weights)
	} else {
		sort.Sort(sort.Reverse(sort.Float64Slice(weights)))
	}
	return weights[n-1], true
}
