package vector

// Filter builds a Qdrant payload filter from must / must_not clauses.
// Conditions are plain maps so the request encoder can embed them
// directly into the search body.
type Filter struct {
	must    []map[string]interface{}
	mustNot []map[string]interface{}
}

func NewFilter() *Filter {
	return &Filter{}
}

// MustMatch requires payload field `key` to equal `value`.
func (f *Filter) MustMatch(key string, value interface{}) *Filter {
	f.must = append(f.must, matchCondition(key, value))
	return f
}

// MustNotMatch excludes records whose payload field `key` equals `value`.
func (f *Filter) MustNotMatch(key string, value interface{}) *Filter {
	f.mustNot = append(f.mustNot, matchCondition(key, value))
	return f
}

// MustNotIDs excludes records by point ID. A nil or empty slice adds
// no clause.
func (f *Filter) MustNotIDs(ids []string) *Filter {
	if len(ids) == 0 {
		return f
	}
	f.mustNot = append(f.mustNot, map[string]interface{}{
		"has_id": ids,
	})
	return f
}

// Body renders the filter in Qdrant's wire format. Returns nil when
// no clauses were added so callers can omit the field entirely.
func (f *Filter) Body() map[string]interface{} {
	if f == nil || (len(f.must) == 0 && len(f.mustNot) == 0) {
		return nil
	}
	body := map[string]interface{}{}
	if len(f.must) > 0 {
		body["must"] = f.must
	}
	if len(f.mustNot) > 0 {
		body["must_not"] = f.mustNot
	}
	return body
}

func matchCondition(key string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"key": key,
		"match": map[string]interface{}{
			"value": value,
		},
	}
}
