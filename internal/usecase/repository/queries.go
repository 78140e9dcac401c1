package repository

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/project/quickstart/internal/entity"
)

const (
	dialectPostgres = "postgres"

	tableAuthors = "authors"
	tableBooks   = "books"

	aliasAuthor = "a"
	aliasBook   = "b"

	colID       = "id"
	colName     = "name"
	colAge      = "age"
	colISBN     = "isbn"
	colTitle    = "title"
	colAuthorID = "author_id"
)

var builder = goqu.Dialect(dialectPostgres)

func insertAuthorQuery(author entity.Author) (string, []any, error) {
	return builder.Insert(tableAuthors).Prepared(true).
		Rows(goqu.Record{colName: author.Name, colAge: author.Age}).
		Returning(colID).
		ToSQL()
}

func updateAuthorQuery(author entity.Author) (string, []any, error) {
	return builder.Update(tableAuthors).Prepared(true).
		Set(goqu.Record{colName: author.Name, colAge: author.Age}).
		Where(goqu.C(colID).Eq(author.ID)).
		ToSQL()
}

func selectAuthorQuery(id int64, forUpdate bool) (string, []any, error) {
	ds := builder.From(tableAuthors).Prepared(true).
		Select(colID, colName, colAge).
		Where(goqu.C(colID).Eq(id))

	if forUpdate {
		ds = ds.ForUpdate(exp.Wait)
	}

	return ds.ToSQL()
}

func countAuthorQuery(id int64) (string, []any, error) {
	return builder.From(tableAuthors).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
}

func listAuthorsQuery(filter entity.AuthorFilter) (string, []any, error) {
	ds := builder.From(tableAuthors).Prepared(true).
		Select(colID, colName, colAge).
		Order(goqu.C(colID).Asc())

	if filter.AgeLessThan != nil {
		ds = ds.Where(goqu.C(colAge).Lt(*filter.AgeLessThan))
	}
	if filter.AgeGreaterThan != nil {
		ds = ds.Where(goqu.C(colAge).Gt(*filter.AgeGreaterThan))
	}

	return ds.ToSQL()
}

func deleteAuthorQuery(id int64) (string, []any, error) {
	return builder.Delete(tableAuthors).Prepared(true).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
}

// authorIDValue keeps an absent author reference as SQL NULL.
func authorIDValue(book entity.Book) any {
	if id := book.AuthorID(); id != nil {
		return *id
	}
	return nil
}

// upsertBookQuery returns (xmax = 0), which is true only for freshly inserted rows.
func upsertBookQuery(book entity.Book) (string, []any, error) {
	return builder.Insert(tableBooks).Prepared(true).
		Rows(goqu.Record{
			colISBN:     book.ISBN,
			colTitle:    book.Title,
			colAuthorID: authorIDValue(book),
		}).
		OnConflict(goqu.DoUpdate(colISBN, goqu.Record{
			colTitle:    goqu.L("EXCLUDED." + colTitle),
			colAuthorID: goqu.L("EXCLUDED." + colAuthorID),
		})).
		Returning(goqu.L("(xmax = 0)")).
		ToSQL()
}

func updateBookQuery(book entity.Book) (string, []any, error) {
	return builder.Update(tableBooks).Prepared(true).
		Set(goqu.Record{colTitle: book.Title, colAuthorID: authorIDValue(book)}).
		Where(goqu.C(colISBN).Eq(book.ISBN)).
		ToSQL()
}

func selectBooksDataset() *goqu.SelectDataset {
	return builder.From(goqu.T(tableBooks).As(aliasBook)).Prepared(true).
		LeftJoin(
			goqu.T(tableAuthors).As(aliasAuthor),
			goqu.On(goqu.T(aliasBook).Col(colAuthorID).Eq(goqu.T(aliasAuthor).Col(colID))),
		).
		Select(
			goqu.T(aliasBook).Col(colISBN),
			goqu.T(aliasBook).Col(colTitle),
			goqu.T(aliasAuthor).Col(colID),
			goqu.T(aliasAuthor).Col(colName),
			goqu.T(aliasAuthor).Col(colAge),
		)
}

func selectBookQuery(isbn string, forUpdate bool) (string, []any, error) {
	ds := selectBooksDataset().Where(goqu.T(aliasBook).Col(colISBN).Eq(isbn))

	if forUpdate {
		// Rows on the nullable side of an outer join can not be locked.
		ds = ds.ForUpdate(exp.Wait, goqu.T(aliasBook))
	}

	return ds.ToSQL()
}

func countBookQuery(isbn string) (string, []any, error) {
	return builder.From(tableBooks).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(colISBN).Eq(isbn)).
		ToSQL()
}

func countBooksQuery() (string, []any, error) {
	return builder.From(tableBooks).Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()
}

func listBooksQuery(page entity.PageRequest) (string, []any, error) {
	return selectBooksDataset().
		Order(goqu.T(aliasBook).Col(colISBN).Asc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())).
		ToSQL()
}

func listBookISBNsByAuthorQuery(authorID int64) (string, []any, error) {
	return builder.From(tableBooks).Prepared(true).
		Select(colISBN).
		Where(goqu.C(colAuthorID).Eq(authorID)).
		Order(goqu.C(colISBN).Asc()).
		ToSQL()
}

func deleteBookQuery(isbn string) (string, []any, error) {
	return builder.Delete(tableBooks).Prepared(true).
		Where(goqu.C(colISBN).Eq(isbn)).
		ToSQL()
}
