package lookup

// Set holds the resolved records of several categories. Categories whose
// fetch failed are present with no records and an entry in Errors.
type Set struct {
	Records map[Category][]Record
	Errors  map[Category]error
}

// NewSet returns an empty, ready to use Set.
func NewSet() Set {
	return Set{
		Records: make(map[Category][]Record),
		Errors:  make(map[Category]error),
	}
}

// Get returns the records for c. The slice is shared; callers must not
// modify it.
func (s Set) Get(c Category) []Record {
	return s.Records[c]
}

// Failed returns the fetch error recorded for c, if any.
func (s Set) Failed(c Category) error {
	if s.Errors == nil {
		return nil
	}
	return s.Errors[c]
}

// Find returns the first record of c whose code equals code.
func (s Set) Find(c Category, code string) (Record, bool) {
	if code == "" {
		return Record{}, false
	}
	for _, r := range s.Records[c] {
		if r.Code == code {
			return r, true
		}
	}
	return Record{}, false
}

// FindByDescription returns the first record of c whose description equals
// desc. Item rows store the description, so they resolve this way.
func (s Set) FindByDescription(c Category, desc string) (Record, bool) {
	if desc == "" {
		return Record{}, false
	}
	for _, r := range s.Records[c] {
		if r.Description == desc {
			return r, true
		}
	}
	return Record{}, false
}
