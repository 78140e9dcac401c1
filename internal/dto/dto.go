// Package dto holds the JSON shapes exchanged over HTTP and the explicit
// conversions between them and the persistence entities.
package dto

import (
	"github.com/project/quickstart/internal/entity"
	"github.com/samber/lo"
)

// Author fields are pointers so that a PATCH body can tell absent fields
// from zero values.
type Author struct {
	ID   *int64  `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
	Age  *int    `json:"age,omitempty"`
}

type Book struct {
	ISBN   *string `json:"isbn,omitempty"`
	Title  *string `json:"title,omitempty"`
	Author *Author `json:"author,omitempty"`
}

type BookPage struct {
	Content       []Book `json:"content"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"total_elements"`
	TotalPages    int    `json:"total_pages"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func AuthorToDTO(a entity.Author) Author {
	return Author{
		ID:   lo.ToPtr(a.ID),
		Name: lo.ToPtr(a.Name),
		Age:  lo.ToPtr(a.Age),
	}
}

func AuthorFromDTO(a Author) entity.Author {
	return entity.Author{
		ID:   lo.FromPtr(a.ID),
		Name: lo.FromPtr(a.Name),
		Age:  lo.FromPtr(a.Age),
	}
}

func AuthorPatchFromDTO(a Author) entity.AuthorPatch {
	return entity.AuthorPatch{
		Name: a.Name,
		Age:  a.Age,
	}
}

func AuthorsToDTO(authors []entity.Author) []Author {
	return lo.Map(authors, func(a entity.Author, _ int) Author {
		return AuthorToDTO(a)
	})
}

func BookToDTO(b entity.Book) Book {
	book := Book{
		ISBN:  lo.ToPtr(b.ISBN),
		Title: lo.ToPtr(b.Title),
	}
	if b.Author != nil {
		book.Author = lo.ToPtr(AuthorToDTO(*b.Author))
	}
	return book
}

func BookFromDTO(b Book) entity.Book {
	book := entity.Book{
		ISBN:  lo.FromPtr(b.ISBN),
		Title: lo.FromPtr(b.Title),
	}
	if b.Author != nil {
		book.Author = lo.ToPtr(AuthorFromDTO(*b.Author))
	}
	return book
}

func BookPatchFromDTO(b Book) entity.BookPatch {
	patch := entity.BookPatch{Title: b.Title}
	if b.Author != nil {
		patch.Author = lo.ToPtr(AuthorFromDTO(*b.Author))
	}
	return patch
}

func BookPageToDTO(p entity.Page[entity.Book]) BookPage {
	return BookPage{
		Content: lo.Map(p.Content, func(b entity.Book, _ int) Book {
			return BookToDTO(b)
		}),
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
	}
}
