package entity

type Book struct {
	ISBN   string  `json:"isbn"`
	Title  string  `json:"title"`
	Author *Author `json:"author,omitempty"`
}

// AuthorID returns the referenced author id or nil when the book has no author.
func (b Book) AuthorID() *int64 {
	if b.Author == nil || b.Author.ID == 0 {
		return nil
	}
	id := b.Author.ID
	return &id
}

// BookPatch carries only the fields present in a partial update.
// A non-nil Author replaces the reference as a whole.
type BookPatch struct {
	Title  *string
	Author *Author
}

func (p BookPatch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		author := *p.Author
		b.Author = &author
	}
	return b
}

func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil
}
