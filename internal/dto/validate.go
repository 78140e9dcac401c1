package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxNameLength  = 255
	MaxTitleLength = 512
	MaxISBNLength  = 32
	MaxAge         = 200
)

func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Min(int64(0))),
		validation.Field(&a.Name, validation.Length(0, MaxNameLength)),
		validation.Field(&a.Age, validation.Min(0), validation.Max(MaxAge)),
	)
}

func (b Book) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.ISBN, validation.Length(0, MaxISBNLength)),
		validation.Field(&b.Title, validation.Length(0, MaxTitleLength)),
		validation.Field(&b.Author),
	)
}

// ValidateISBN checks a natural key taken from the request path.
func ValidateISBN(isbn string) error {
	return validation.Validate(isbn,
		validation.Required.Error("isbn is required"),
		validation.Length(1, MaxISBNLength),
	)
}
