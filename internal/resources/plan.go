package resources

// EmptyMessage is shown for a subject that has no uploads yet.
const EmptyMessage = "No resources uploaded yet."

// FailureMessage is shown inline when a subject's resources could not be loaded.
const FailureMessage = "Failed to load resources."

// Group is one render section: a category and its records in service order.
type Group struct {
	Type    Type
	Records []Record
}

// Plan is the ordered render layout for one subject. A zero Plan means the
// service returned no records, which is a valid state and not an error.
type Plan struct {
	Groups []Group
}

// Empty reports whether the plan has nothing to render.
func (p Plan) Empty() bool {
	return len(p.Groups) == 0
}

// Len is the number of records across all groups.
func (p Plan) Len() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Records)
	}
	return n
}

// Group returns the records filed under t.
func (p Plan) Group(t Type) ([]Record, bool) {
	for _, g := range p.Groups {
		if g.Type == t {
			return g.Records, true
		}
	}
	return nil, false
}

// BuildPlan buckets records by type in the fixed category order, keeping the
// service order within each bucket and omitting empty buckets.
func BuildPlan(records []Record) Plan {
	if len(records) == 0 {
		return Plan{}
	}
	buckets := make(map[Type][]Record, len(Types))
	for _, rec := range records {
		t := Classify(rec.Type)
		buckets[t] = append(buckets[t], rec)
	}
	plan := Plan{Groups: make([]Group, 0, len(buckets))}
	for _, t := range Types {
		if recs := buckets[t]; len(recs) > 0 {
			plan.Groups = append(plan.Groups, Group{Type: t, Records: recs})
		}
	}
	return plan
}
