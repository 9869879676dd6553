package funding

// Attribution groups crates under the funding endpoints they declare.
// Endpoint order follows first appearance across the resolution list, and
// each endpoint's crate list follows resolution order.
type Attribution struct {
	order  []string
	crates map[string][]CrateRef
}

// Aggregate folds resolutions into an endpoint-keyed attribution.
func Aggregate(results []Resolution) *Attribution {
	a := &Attribution{crates: make(map[string][]CrateRef)}
	for _, r := range results {
		for _, endpoint := range r.Endpoints {
			if _, ok := a.crates[endpoint]; !ok {
				a.order = append(a.order, endpoint)
			}
			a.crates[endpoint] = append(a.crates[endpoint], r.Ref)
		}
	}
	return a
}

// Endpoints returns the endpoints in first-seen order.
func (a *Attribution) Endpoints() []string { return a.order }

// Crates returns the crates attributed to an endpoint.
func (a *Attribution) Crates(endpoint string) []CrateRef { return a.crates[endpoint] }

// Len reports the number of distinct endpoints.
func (a *Attribution) Len() int { return len(a.order) }

// Summary counts the run's outcome: how many dependencies were examined and
// how many ended up with at least one funding endpoint.
type Summary struct {
	Total      int
	Attributed int
}

// Summarize derives the run summary from the resolution list.
func Summarize(results []Resolution) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if len(r.Endpoints) > 0 {
			s.Attributed++
		}
	}
	return s
}
