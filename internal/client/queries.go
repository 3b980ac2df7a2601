package client

// maxBuckets caps every terms aggregation; the store returns at most
// this many (key, count) pairs, descending by count.
const maxBuckets = 100

// docTypeFilter selects job-execution documents; every query carries it.
const docTypeFilter = "type.keyword:job_info"

// termsQuery builds a bucket aggregation over field within w, with
// optional extra match_phrase filters.
func termsQuery(w Window, field string, filters ...map[string]any) map[string]any {
	return map[string]any{
		"aggs": map[string]any{
			"2": map[string]any{
				"terms": map[string]any{
					"field": field,
					"order": map[string]any{"_count": "desc"},
					"size":  maxBuckets,
				},
			},
		},
		"size":  0,
		"query": boolQuery(w, filters),
	}
}

// avgQuery builds a scalar average aggregation over field within w.
// track_total_hits lifts the store's 10,000 hit-count ceiling so the
// reported totals stay exact on large windows.
func avgQuery(w Window, field string, filters ...map[string]any) map[string]any {
	return map[string]any{
		"aggs": map[string]any{
			"2": map[string]any{"avg": map[string]any{"field": field}},
		},
		"size":             0,
		"track_total_hits": true,
		"query":            boolQuery(w, filters),
	}
}

func boolQuery(w Window, filters []map[string]any) map[string]any {
	all := make([]map[string]any, 0, len(filters)+1)
	all = append(all, filters...)
	all = append(all, map[string]any{
		"range": map[string]any{
			"@timestamp": map[string]any{
				"gte":    w.startString(),
				"lte":    w.endString(),
				"format": "strict_date_optional_time",
			},
		},
	})
	return map[string]any{
		"bool": map[string]any{
			"must": []map[string]any{
				{"match_all": map[string]any{}},
				{"query_string": map[string]any{
					"query":            docTypeFilter,
					"analyze_wildcard": true,
				}},
			},
			"filter":   all,
			"should":   []map[string]any{},
			"must_not": []map[string]any{},
		},
	}
}

func matchPhrase(field string, value any) map[string]any {
	return map[string]any{
		"match_phrase": map[string]any{field: value},
	}
}
