package entity

type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// AuthorPatch carries only the fields present in a partial update.
type AuthorPatch struct {
	Name *string
	Age  *int
}

// Apply overwrites the fields of a that are set in the patch.
func (p AuthorPatch) Apply(a Author) Author {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	return a
}

func (p AuthorPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil
}

// AuthorFilter narrows author listings by age. Zero value matches everything.
type AuthorFilter struct {
	AgeLessThan    *int
	AgeGreaterThan *int
}
