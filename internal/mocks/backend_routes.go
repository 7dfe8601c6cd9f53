//nolint:exhaustruct,mnd //ignore
package mocks

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"books.xdoubleu.com/pkg/backend"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
)

//nolint:gochecknoglobals //fixed catalog
var externalBooks = []backend.ExternalBook{
	{
		ExternalID: "ext-dune",
		Title:      "Dune",
		Authors:    []string{"Frank Herbert"},
		Categories: []string{"Fiction"},
		PageCount:  412,
	},
	{
		ExternalID: "ext-lefthand",
		Title:      "The Left Hand of Darkness",
		Authors:    []string{"Ursula K. Le Guin"},
		Categories: []string{"Fiction"},
		PageCount:  304,
	},
	{
		ExternalID: "ext-hyperion",
		Title:      "Hyperion",
		Authors:    []string{"Dan Simmons"},
		Categories: []string{"Fiction"},
		PageCount:  482,
	},
}

func (server *BackendServer) routes() {
	server.route("POST /auth/token", server.tokenHandler)
	server.route("POST /auth/signup", server.signupHandler)
	server.route("POST /auth/logout", server.logoutHandler)
	server.route("POST /auth/refresh", server.refreshHandler)

	server.authedRoute("GET /users/me", server.meHandler)
	server.authedRoute("PUT /users/me/profile", server.updateProfileHandler)
	server.authedRoute("GET /users", server.listUsersHandler)
	server.authedRoute("GET /users/{id}", server.getUserHandler)

	server.route("GET /books", server.listBooksHandler)
	server.route("GET /books/{id}", server.getBookHandler)
	server.authedRoute("POST /books", server.createBookHandler)
	server.route("GET /books/search-external", server.searchExternalHandler)
	server.route("GET /books/popular", server.popularHandler)
	server.route("GET /books/external/{id}", server.getExternalBookHandler)

	server.authedRoute("POST /user-books", server.addUserBookHandler)
	server.authedRoute("GET /user-books/my-books", server.myBooksHandler)
	server.authedRoute("GET /user-books/book/{id}", server.userBookForBookHandler)
	server.authedRoute(
		"GET /user-books/book/external/{id}",
		server.userBookForExternalHandler,
	)
	server.authedRoute("GET /user-books/status/{status}", server.userBooksByStatusHandler)
	server.authedRoute("PUT /user-books/{id}", server.updateUserBookHandler)
	server.authedRoute("DELETE /user-books/{id}", server.removeUserBookHandler)

	server.authedRoute("POST /reviews", server.createReviewHandler)
	server.authedRoute("GET /reviews", server.listReviewsHandler)
	server.authedRoute("GET /reviews/{id}", server.getReviewHandler)
	server.authedRoute("GET /reviews/book/{id}", server.reviewsForBookHandler)
	server.authedRoute("PUT /reviews/{id}", server.updateReviewHandler)
	server.authedRoute("DELETE /reviews/{id}", server.deleteReviewHandler)

	server.authedRoute("GET /recommendations/{id}", server.recommendationsHandler)
}

func (server *BackendServer) tokenHandler(w http.ResponseWriter, r *http.Request) {
	var loginDto backend.LoginDto
	if err := httptools.ReadForm(r, &loginDto); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for _, u := range server.users {
		if u.Email == loginDto.Username && u.password == loginDto.Password {
			token := server.issueTokens(w)
			current := u.User
			writeData(w, http.StatusOK, backend.AuthResponse{
				AccessToken:  token,
				RefreshToken: server.refreshToken,
				TokenType:    "bearer",
				User:         &current,
			})
			return
		}
	}

	writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
}

func (server *BackendServer) signupHandler(w http.ResponseWriter, r *http.Request) {
	var signupDto backend.SignupDto
	if err := httptools.ReadForm(r, &signupDto); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for _, u := range server.users {
		if u.Email == signupDto.Email {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}

	created := &user{
		User: backend.User{
			ID:    server.id(),
			Name:  signupDto.Name,
			Email: signupDto.Email,
		},
		password: signupDto.Password,
	}
	server.users[created.ID] = created

	writeData(w, http.StatusCreated, created.User)
}

func (server *BackendServer) logoutHandler(w http.ResponseWriter, _ *http.Request) {
	server.mu.Lock()
	server.accessToken = ""
	server.refreshToken = ""
	server.mu.Unlock()

	setCookie(w, backend.AccessTokenCookie, "")
	setCookie(w, RefreshTokenCookie, "")

	writeData(w, http.StatusOK, nil)
}

func (server *BackendServer) refreshHandler(w http.ResponseWriter, r *http.Request) {
	server.mu.Lock()
	delay := server.refreshDelay
	server.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	cookie, err := r.Cookie(RefreshTokenCookie)
	if server.refreshFails || err != nil || cookie.Value != server.refreshToken {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	token := server.issueTokens(w)
	writeData(w, http.StatusOK, backend.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (server *BackendServer) meHandler(w http.ResponseWriter, _ *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()

	writeData(w, http.StatusOK, server.users[TestUserID].User)
}

func (server *BackendServer) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var dto backend.UpdateProfileDto
	if !readJSON(w, r, &dto) {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	current := server.users[TestUserID]
	if dto.Name != nil {
		current.Name = *dto.Name
	}

	writeData(w, http.StatusOK, current.User)
}

func (server *BackendServer) listUsersHandler(w http.ResponseWriter, _ *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()

	users := []backend.User{}
	for _, u := range server.users {
		users = append(users, u.User)
	}

	writeData(w, http.StatusOK, users)
}

func (server *BackendServer) getUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	u, found := server.users[id]
	if !found {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}

	writeData(w, http.StatusOK, u.User)
}

func (server *BackendServer) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.ToLower(query.Get("q"))
	author := strings.ToLower(query.Get("author"))

	server.mu.Lock()
	books := []backend.Book{}
	for _, book := range server.books {
		if q != "" && !strings.Contains(strings.ToLower(book.Title), q) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(book.Author), author) {
			continue
		}
		books = append(books, book)
	}
	server.mu.Unlock()

	items, pagination := paginate(books, intQuery(r, "page", 1), intQuery(r, "page_size", 10))
	writePage(w, items, pagination)
}

func (server *BackendServer) getBookHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	book := server.findBook(id)
	if book == nil {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}

	writeData(w, http.StatusOK, book)
}

func (server *BackendServer) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var dto backend.CreateBookDto
	if !readJSON(w, r, &dto) {
		return
	}

	if dto.Title == "" || dto.Author == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "title and author are required"}},
		})
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	id := server.id()
	book := backend.Book{
		ID:            &id,
		Title:         dto.Title,
		Author:        dto.Author,
		Description:   dto.Description,
		PageCount:     dto.PageCount,
		PublishedDate: dto.PublishedDate,
		Publisher:     dto.Publisher,
		ISBN:          dto.ISBN,
		ImageURL:      dto.ImageURL,
		Language:      dto.Language,
		Genres:        dto.Genres,
	}
	server.books = append(server.books, book)

	writeData(w, http.StatusCreated, book)
}

func (server *BackendServer) searchExternalHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	books := []backend.ExternalBook{}
	for _, book := range externalBooks {
		if strings.Contains(strings.ToLower(book.Title), q) {
			books = append(books, book)
		}
	}

	items, pagination := paginate(
		books,
		intQuery(r, "page", 1),
		intQuery(r, "max_results", 10),
	)
	writePage(w, items, pagination)
}

func (server *BackendServer) popularHandler(w http.ResponseWriter, r *http.Request) {
	items, pagination := paginate(
		externalBooks,
		intQuery(r, "page", 1),
		intQuery(r, "max_results", 10),
	)
	writePage(w, items, pagination)
}

func (server *BackendServer) getExternalBookHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	for _, book := range externalBooks {
		if book.ExternalID == r.PathValue("id") {
			writeData(w, http.StatusOK, book)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Book not found")
}

func (server *BackendServer) addUserBookHandler(w http.ResponseWriter, r *http.Request) {
	var dto backend.CreateUserBookDto
	if !readJSON(w, r, &dto) {
		return
	}

	if dto.BookID == nil && dto.ExternalBookID == nil {
		writeDetail(w, http.StatusBadRequest, "book_id or external_book_id is required")
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for _, existing := range server.userBooks {
		if sameBook(existing.BookID, existing.ExternalBookID, dto.BookID, dto.ExternalBookID) {
			writeDetail(w, http.StatusBadRequest, "Book already in reading list")
			return
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	userBook := backend.UserBook{
		ID:             server.id(),
		UserID:         TestUserID,
		BookID:         dto.BookID,
		ExternalBookID: dto.ExternalBookID,
		Status:         dto.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if dto.BookID != nil {
		userBook.Book = server.findBook(*dto.BookID)
	}
	server.userBooks = append(server.userBooks, userBook)

	writeData(w, http.StatusCreated, userBook)
}

func (server *BackendServer) myBooksHandler(w http.ResponseWriter, _ *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()

	writeData(w, http.StatusOK, append([]backend.UserBook{}, server.userBooks...))
}

func (server *BackendServer) userBookForBookHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for _, userBook := range server.userBooks {
		if userBook.BookID != nil && *userBook.BookID == id {
			writeData(w, http.StatusOK, userBook)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Book not in reading list")
}

func (server *BackendServer) userBookForExternalHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	server.mu.Lock()
	defer server.mu.Unlock()

	for _, userBook := range server.userBooks {
		if userBook.ExternalBookID != nil && *userBook.ExternalBookID == r.PathValue("id") {
			writeData(w, http.StatusOK, userBook)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Book not in reading list")
}

func (server *BackendServer) userBooksByStatusHandler(
	w http.ResponseWriter,
	r *http.Request,
) {
	status := backend.Status(r.PathValue("status"))

	server.mu.Lock()
	defer server.mu.Unlock()

	userBooks := []backend.UserBook{}
	for _, userBook := range server.userBooks {
		if userBook.Status == status {
			userBooks = append(userBooks, userBook)
		}
	}

	writeData(w, http.StatusOK, userBooks)
}

func (server *BackendServer) updateUserBookHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var dto backend.UpdateUserBookDto
	if !readJSON(w, r, &dto) {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for i := range server.userBooks {
		if server.userBooks[i].ID == id {
			server.userBooks[i].Status = dto.Status
			server.userBooks[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			writeData(w, http.StatusOK, server.userBooks[i])
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Reading list entry not found")
}

func (server *BackendServer) removeUserBookHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for i, userBook := range server.userBooks {
		if userBook.ID == id {
			server.userBooks = append(server.userBooks[:i], server.userBooks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Reading list entry not found")
}

func (server *BackendServer) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var dto backend.CreateReviewDto
	if !readJSON(w, r, &dto) {
		return
	}

	if dto.Rate < backend.MinRating || dto.Rate > backend.MaxRating {
		writeDetail(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	name := server.users[TestUserID].Name
	createdAt := time.Now().UTC().Format(time.RFC3339)
	review := backend.Review{
		ID:             server.id(),
		Content:        dto.Content,
		Rate:           dto.Rate,
		UserID:         TestUserID,
		BookID:         dto.BookID,
		ExternalBookID: dto.ExternalBookID,
		CreatedAt:      &createdAt,
		UserName:       &name,
	}
	server.reviews = append(server.reviews, review)

	writeData(w, http.StatusCreated, review)
}

func (server *BackendServer) listReviewsHandler(w http.ResponseWriter, _ *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()

	writeData(w, http.StatusOK, append([]backend.Review{}, server.reviews...))
}

func (server *BackendServer) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for _, review := range server.reviews {
		if review.ID == id {
			writeData(w, http.StatusOK, review)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Review not found")
}

func (server *BackendServer) reviewsForBookHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	reviews := []backend.Review{}
	for _, review := range server.reviews {
		if review.BookID != nil && *review.BookID == id {
			reviews = append(reviews, review)
		}
	}

	writeData(w, http.StatusOK, reviews)
}

func (server *BackendServer) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var dto backend.UpdateReviewDto
	if !readJSON(w, r, &dto) {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for i := range server.reviews {
		if server.reviews[i].ID != id {
			continue
		}

		if dto.Content != nil {
			server.reviews[i].Content = *dto.Content
		}
		if dto.Rate != nil {
			server.reviews[i].Rate = *dto.Rate
		}

		writeData(w, http.StatusOK, server.reviews[i])
		return
	}

	writeDetail(w, http.StatusNotFound, "Review not found")
}

func (server *BackendServer) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	for i, review := range server.reviews {
		if review.ID == id {
			server.reviews = append(server.reviews[:i], server.reviews[i+1:]...)
			writeData(w, http.StatusOK, nil)
			return
		}
	}

	writeDetail(w, http.StatusNotFound, "Review not found")
}

func (server *BackendServer) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if id != TestUserID {
		writeDetail(w, http.StatusForbidden, "Not allowed to view these recommendations")
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()

	writeData(w, http.StatusOK, server.recommendation)
}

func (server *BackendServer) findBook(id int64) *backend.Book {
	for i := range server.books {
		if server.books[i].ID != nil && *server.books[i].ID == id {
			book := server.books[i]
			return &book
		}
	}

	return nil
}

func sameBook(bookID *int64, externalID *string, otherBookID *int64, otherExternalID *string) bool {
	if bookID != nil && otherBookID != nil {
		return *bookID == *otherBookID
	}

	if externalID != nil && otherExternalID != nil {
		return *externalID == *otherExternalID
	}

	return false
}

func paginate[T any](items []T, page int, pageSize int) ([]T, backend.Pagination) {
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	return items[start:end], backend.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		PageSize:    pageSize,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		StartIndex:  start + 1,
		EndIndex:    end,
	}
}

func intQuery(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || value < 1 {
		return fallback
	}

	return value
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", r.PathValue("id")))
		return 0, false
	}

	return id, true
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httptools.ReadJSON(r.Body, dst); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}

	return true
}
