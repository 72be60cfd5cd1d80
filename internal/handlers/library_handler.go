package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bookkeeper/internal/errors"
	"bookkeeper/internal/pagination"
	"bookkeeper/internal/services"
)

// LibraryHandler handles the catalog and member registry.
type LibraryHandler struct {
	catalog services.CatalogServicer
	members services.MemberServicer
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(catalog services.CatalogServicer, members services.MemberServicer) *LibraryHandler {
	return &LibraryHandler{catalog: catalog, members: members}
}

// CreateAuthorRequest represents the request payload for creating an author.
type CreateAuthorRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	BirthYear int    `json:"birth_year" binding:"omitempty,year"`
}

// UpdateAuthorRequest represents the request payload for updating an author.
type UpdateAuthorRequest struct {
	Name      string `json:"name" binding:"omitempty,min=1,max=200"`
	BirthYear *int   `json:"birth_year" binding:"omitempty,year"`
}

// CreateBookRequest represents the request payload for creating a book.
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=300"`
	Genre         string `json:"genre" binding:"omitempty,max=100"`
	PublishedYear int    `json:"published_year" binding:"omitempty,year"`
	AuthorIDs     []uint `json:"author_ids" binding:"omitempty,dive,gt=0"`
}

// UpdateBookRequest represents the request payload for updating a book.
type UpdateBookRequest struct {
	Title         string `json:"title" binding:"omitempty,min=1,max=300"`
	Genre         string `json:"genre" binding:"omitempty,max=100"`
	PublishedYear *int   `json:"published_year" binding:"omitempty,year"`
}

// CreateMemberRequest represents the request payload for registering a member.
type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email"`
	JoinDate string `json:"join_date" binding:"omitempty,date_only"`
}

// UpdateMemberRequest represents the request payload for updating a member.
type UpdateMemberRequest struct {
	Name  string `json:"name" binding:"omitempty,min=1,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
}

// CreateAuthor handles the creation of a new author.
// @Summary     Create an author
// @Tags        library
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAuthorRequest true "Author details"
// @Success     201 {object} models.Author "Author created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /library/authors [post]
func (h *LibraryHandler) CreateAuthor(c *gin.Context) {
	var req CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	author, err := h.catalog.CreateAuthor(req.Name, req.BirthYear)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"author": author})
}

// GetAuthors handles listing authors.
// @Summary     List authors
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Author] "Paginated authors"
// @Router      /library/authors [get]
func (h *LibraryHandler) GetAuthors(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.catalog.ListAuthors(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAuthor handles retrieving an author.
// @Summary     Get author by ID
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Author ID"
// @Success     200 {object} models.Author "Author details"
// @Failure     404 {object} ErrorResponse "Author not found"
// @Router      /library/authors/{id} [get]
func (h *LibraryHandler) GetAuthor(c *gin.Context) {
	authorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	author, err := h.catalog.GetAuthorByID(authorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"author": author})
}

// UpdateAuthor handles updating an author.
// @Summary     Update author
// @Tags        library
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Author ID"
// @Param       request body UpdateAuthorRequest true "Updated author details"
// @Success     200 {object} models.Author "Updated author"
// @Failure     404 {object} ErrorResponse "Author not found"
// @Router      /library/authors/{id} [put]
func (h *LibraryHandler) UpdateAuthor(c *gin.Context) {
	authorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	author, err := h.catalog.UpdateAuthor(authorID, req.Name, req.BirthYear)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"author": author})
}

// DeleteAuthor handles deleting an author with no books.
// @Summary     Delete author
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Author ID"
// @Success     200 {object} MessageResponse "Author deleted"
// @Failure     404 {object} ErrorResponse "Author not found"
// @Failure     409 {object} ErrorResponse "Author has books"
// @Router      /library/authors/{id} [delete]
func (h *LibraryHandler) DeleteAuthor(c *gin.Context) {
	authorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.catalog.DeleteAuthor(authorID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Author deleted successfully"})
}

// CreateBook handles adding a book to the catalog.
// @Summary     Create a book
// @Tags        library
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBookRequest true "Book details"
// @Success     201 {object} models.Book "Book created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Author not found"
// @Router      /library/books [post]
func (h *LibraryHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	book, err := h.catalog.CreateBook(req.Title, req.Genre, req.PublishedYear, req.AuthorIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// GetBooks handles listing books.
// @Summary     List books
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       genre     query string false "Filter by genre"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Book] "Paginated books"
// @Router      /library/books [get]
func (h *LibraryHandler) GetBooks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.catalog.ListBooks(page, c.Query("genre"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBook handles retrieving a book with its authors.
// @Summary     Get book by ID
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Book ID"
// @Success     200 {object} models.Book "Book details"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Router      /library/books/{id} [get]
func (h *LibraryHandler) GetBook(c *gin.Context) {
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	book, err := h.catalog.GetBookByID(bookID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// UpdateBook handles updating a book.
// @Summary     Update book
// @Tags        library
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Book ID"
// @Param       request body UpdateBookRequest true "Updated book details"
// @Success     200 {object} models.Book "Updated book"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Router      /library/books/{id} [put]
func (h *LibraryHandler) UpdateBook(c *gin.Context) {
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	book, err := h.catalog.UpdateBook(bookID, req.Title, req.Genre, req.PublishedYear)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// DeleteBook handles deleting a book that was never lent.
// @Summary     Delete book
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Book ID"
// @Success     200 {object} MessageResponse "Book deleted"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     409 {object} ErrorResponse "Book has loans"
// @Router      /library/books/{id} [delete]
func (h *LibraryHandler) DeleteBook(c *gin.Context) {
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.catalog.DeleteBook(bookID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// AddBookAuthor handles linking an author to a book.
// @Summary     Link author to book
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id       path int true "Book ID"
// @Param       authorId path int true "Author ID"
// @Success     200 {object} models.Book "Book with authors"
// @Failure     404 {object} ErrorResponse "Book or author not found"
// @Router      /library/books/{id}/authors/{authorId} [post]
func (h *LibraryHandler) AddBookAuthor(c *gin.Context) {
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	authorID, err := parsePathID(c, "authorId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	book, err := h.catalog.AddBookAuthor(bookID, authorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// RemoveBookAuthor handles unlinking an author from a book.
// @Summary     Unlink author from book
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id       path int true "Book ID"
// @Param       authorId path int true "Author ID"
// @Success     200 {object} models.Book "Book with authors"
// @Failure     404 {object} ErrorResponse "Book not found or author not linked"
// @Router      /library/books/{id}/authors/{authorId} [delete]
func (h *LibraryHandler) RemoveBookAuthor(c *gin.Context) {
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	authorID, err := parsePathID(c, "authorId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	book, err := h.catalog.RemoveBookAuthor(bookID, authorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// CreateMember handles registering a member.
// @Summary     Register a member
// @Tags        library
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateMemberRequest true "Member details"
// @Success     201 {object} models.Member "Member created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /library/members [post]
func (h *LibraryHandler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	joinDate, err := parseDate(req.JoinDate, "join_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.members.CreateMember(req.Name, req.Email, joinDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// GetMembers handles listing members.
// @Summary     List members
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Member] "Paginated members"
// @Router      /library/members [get]
func (h *LibraryHandler) GetMembers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.members.ListMembers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMember handles retrieving a member.
// @Summary     Get member by ID
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Member ID"
// @Success     200 {object} models.Member "Member details"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /library/members/{id} [get]
func (h *LibraryHandler) GetMember(c *gin.Context) {
	memberID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.members.GetMemberByID(memberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// UpdateMember handles updating a member.
// @Summary     Update member
// @Tags        library
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Member ID"
// @Param       request body UpdateMemberRequest true "Updated member details"
// @Success     200 {object} models.Member "Updated member"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /library/members/{id} [put]
func (h *LibraryHandler) UpdateMember(c *gin.Context) {
	memberID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.members.UpdateMember(memberID, req.Name, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// GetMemberLoans handles listing a member's loan history.
// @Summary     List member loans
// @Tags        library
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Member ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Loan] "Paginated loans"
// @Failure     404 {object} ErrorResponse "Member not found"
// @Router      /library/members/{id}/loans [get]
func (h *LibraryHandler) GetMemberLoans(c *gin.Context) {
	memberID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.members.GetMemberLoans(memberID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
