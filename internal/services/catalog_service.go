package services

import (
	"strings"

	"gorm.io/gorm"

	"bookkeeper/internal/database"
	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/models"
	"bookkeeper/internal/pagination"
)

// catalogService handles authors, books and the links between them.
type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogServicer.
func NewCatalogService(db *gorm.DB) CatalogServicer {
	return &catalogService{db: db}
}

// CreateAuthor creates a new author.
func (s *catalogService) CreateAuthor(name string, birthYear int) (*models.Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "author name is required")
	}

	author := &models.Author{Name: name, BirthYear: birthYear}
	if err := s.db.Create(author).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return author, nil
}

// GetAuthorByID retrieves an author by ID.
func (s *catalogService) GetAuthorByID(authorID uint) (*models.Author, error) {
	var author models.Author
	if err := s.db.First(&author, authorID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrAuthorNotFound)
	}
	return &author, nil
}

// ListAuthors retrieves a paginated list of authors in insertion order.
func (s *catalogService) ListAuthors(page pagination.PageRequest) (*pagination.PageResponse[models.Author], error) {
	return listPage[models.Author](s.db.Model(&models.Author{}), page, "id ASC")
}

// UpdateAuthor updates an author's name and/or birth year.
func (s *catalogService) UpdateAuthor(authorID uint, name string, birthYear *int) (*models.Author, error) {
	author, err := s.GetAuthorByID(authorID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name = strings.TrimSpace(name); name != "" {
		updates["name"] = name
	}
	if birthYear != nil {
		updates["birth_year"] = *birthYear
	}

	if len(updates) > 0 {
		if err := s.db.Model(author).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return author, nil
}

// DeleteAuthor removes an author that no book refers to.
func (s *catalogService) DeleteAuthor(authorID uint) error {
	return database.RunInTx(s.db, func(tx *gorm.DB) error {
		var author models.Author
		if err := tx.First(&author, authorID).Error; err != nil {
			return lookupError(err, apperrors.ErrAuthorNotFound)
		}

		var links int64
		if err := tx.Model(&models.BookAuthor{}).Where("author_id = ?", authorID).Count(&links).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if links > 0 {
			return apperrors.ErrAuthorHasBooks
		}

		if err := tx.Delete(&author).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// CreateBook creates a book linked to the given authors, all of which must exist.
func (s *catalogService) CreateBook(title, genre string, publishedYear int, authorIDs []uint) (*models.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "book title is required")
	}

	var book *models.Book
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		authors, err := findAuthors(tx, authorIDs)
		if err != nil {
			return err
		}

		book = &models.Book{
			Title:         title,
			Genre:         strings.TrimSpace(genre),
			PublishedYear: publishedYear,
		}
		if err := tx.Omit("Authors").Create(book).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		for _, a := range authors {
			if err := tx.Create(&models.BookAuthor{BookID: book.ID, AuthorID: a.ID}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		book.Authors = authors
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// findAuthors loads the distinct authors for ids in insertion order, failing
// with ErrAuthorNotFound if any id is unknown.
func findAuthors(tx *gorm.DB, ids []uint) ([]models.Author, error) {
	authors := []models.Author{}
	if len(ids) == 0 {
		return authors, nil
	}

	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&authors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(authors) != len(unique) {
		return nil, apperrors.ErrAuthorNotFound
	}
	return authors, nil
}

// GetBookByID retrieves a book with its authors.
func (s *catalogService) GetBookByID(bookID uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.Preload("Authors", func(db *gorm.DB) *gorm.DB {
		return db.Order("authors.id ASC")
	}).First(&book, bookID).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrBookNotFound)
	}
	return &book, nil
}

// ListBooks retrieves a paginated list of books, optionally by genre.
func (s *catalogService) ListBooks(page pagination.PageRequest, genre string) (*pagination.PageResponse[models.Book], error) {
	base := s.db.Model(&models.Book{})
	if genre = strings.TrimSpace(genre); genre != "" {
		base = base.Where("genre = ?", genre)
	}
	return listPage[models.Book](base, page, "id ASC", "Authors")
}

// UpdateBook updates a book's descriptive fields.
func (s *catalogService) UpdateBook(bookID uint, title, genre string, publishedYear *int) (*models.Book, error) {
	book, err := s.GetBookByID(bookID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title = strings.TrimSpace(title); title != "" {
		updates["title"] = title
	}
	if genre = strings.TrimSpace(genre); genre != "" {
		updates["genre"] = genre
	}
	if publishedYear != nil {
		updates["published_year"] = *publishedYear
	}

	if len(updates) > 0 {
		if err := s.db.Model(book).Omit("Authors").Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return book, nil
}

// AddBookAuthor links an author to a book. Linking twice is a no-op.
func (s *catalogService) AddBookAuthor(bookID, authorID uint) (*models.Book, error) {
	err := database.RunInTx(s.db, func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Book{}, bookID).Error; err != nil {
			return lookupError(err, apperrors.ErrBookNotFound)
		}
		if err := tx.Select("id").First(&models.Author{}, authorID).Error; err != nil {
			return lookupError(err, apperrors.ErrAuthorNotFound)
		}

		var existing int64
		if err := tx.Model(&models.BookAuthor{}).
			Where("book_id = ? AND author_id = ?", bookID, authorID).
			Count(&existing).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if existing > 0 {
			return nil
		}

		if err := tx.Create(&models.BookAuthor{BookID: bookID, AuthorID: authorID}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBookByID(bookID)
}

// RemoveBookAuthor unlinks an author from a book.
func (s *catalogService) RemoveBookAuthor(bookID, authorID uint) (*models.Book, error) {
	if _, err := s.GetBookByID(bookID); err != nil {
		return nil, err
	}

	res := s.db.Where("book_id = ? AND author_id = ?", bookID, authorID).Delete(&models.BookAuthor{})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrAuthorNotFound, "author is not linked to this book")
	}
	return s.GetBookByID(bookID)
}

// DeleteBook removes a book that has never been lent, with its author links.
func (s *catalogService) DeleteBook(bookID uint) error {
	return database.RunInTx(s.db, func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return lookupError(err, apperrors.ErrBookNotFound)
		}

		var loans int64
		if err := tx.Model(&models.Loan{}).Where("book_id = ?", bookID).Count(&loans).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if loans > 0 {
			return apperrors.ErrBookHasLoans
		}

		if err := tx.Where("book_id = ?", bookID).Delete(&models.BookAuthor{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&book).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
