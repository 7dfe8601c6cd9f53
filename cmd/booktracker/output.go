package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"books.xdoubleu.com/cmd/booktracker/internal/services"
	"books.xdoubleu.com/pkg/backend"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const sessionExpiredMessage = "Session expired. Please login again."

type printer struct {
	out     io.Writer
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	renderer := lipgloss.NewRenderer(out)

	return &printer{
		out:     out,
		title:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		muted:   renderer.NewStyle().Foreground(lipgloss.Color("245")),
		success: renderer.NewStyle().Foreground(lipgloss.Color("42")),
		failure: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (p *printer) Title(text string) {
	fmt.Fprintln(p.out, p.title.Render(text))
}

func (p *printer) Muted(text string) {
	fmt.Fprintln(p.out, p.muted.Render(text))
}

func (p *printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) Failure(text string) {
	fmt.Fprintln(p.out, p.failure.Render(text))
}

func (p *printer) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		p.Muted("Nothing here yet.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(p.out, t.String())
}

func (p *printer) Pagination(pagination *backend.Pagination) {
	if pagination == nil || pagination.TotalCount == 0 {
		return
	}

	p.Muted(fmt.Sprintf(
		"Showing %d-%d of %d (page %d/%d)",
		pagination.StartIndex,
		pagination.EndIndex,
		pagination.TotalCount,
		pagination.CurrentPage,
		pagination.TotalPages,
	))
}

func (p *printer) Books(page *backend.Page[backend.Book]) {
	rows := make([][]string, 0, len(page.Items))
	for _, book := range page.Items {
		rows = append(rows, []string{
			optionalID(book.ID),
			book.Title,
			book.Author,
			strings.Join(book.Genres, ", "),
		})
	}

	p.Table([]string{"ID", "Title", "Author", "Genres"}, rows)
	p.Pagination(page.Pagination)
}

func (p *printer) ExternalBooks(page *backend.Page[backend.ExternalBook]) {
	rows := make([][]string, 0, len(page.Items))
	for _, book := range page.Items {
		rows = append(rows, []string{
			book.ExternalID,
			book.Title,
			strings.Join(book.Authors, ", "),
			book.PublishedDate,
		})
	}

	p.Table([]string{"External ID", "Title", "Authors", "Published"}, rows)
	p.Pagination(page.Pagination)
}

func (p *printer) BookDetails(details *services.BookDetails) {
	book := details.Book

	p.Title(fmt.Sprintf("%s by %s", book.Title, book.Author))
	if book.Description != nil {
		fmt.Fprintln(p.out, *book.Description)
	}
	if book.PageCount != nil {
		p.Muted(fmt.Sprintf("%d pages", *book.PageCount))
	}
	if len(book.Genres) > 0 {
		p.Muted(strings.Join(book.Genres, ", "))
	}
	if details.UserBook != nil {
		p.Success("On your shelf: %s", statusLabel(details.UserBook.Status))
	}

	fmt.Fprintln(p.out)
	p.Reviews(details.Reviews)
}

func (p *printer) Shelves(shelves []services.Shelf) {
	for _, shelf := range shelves {
		p.Title(statusLabel(shelf.Status))

		rows := make([][]string, 0, len(shelf.Books))
		for _, userBook := range shelf.Books {
			rows = append(rows, []string{
				strconv.FormatInt(userBook.ID, 10),
				userBookTitle(userBook),
				userBook.UpdatedAt,
			})
		}

		p.Table([]string{"Entry", "Book", "Updated"}, rows)
	}
}

func (p *printer) Reviews(reviews []backend.Review) {
	rows := make([][]string, 0, len(reviews))
	for _, review := range reviews {
		author := ""
		if review.UserName != nil {
			author = *review.UserName
		}

		rows = append(rows, []string{
			strconv.FormatInt(review.ID, 10),
			stars(review.Rate),
			author,
			review.Content,
		})
	}

	p.Table([]string{"ID", "Rating", "By", "Review"}, rows)
}

func (p *printer) Recommendations(recs *services.Recommendations, raw bool) {
	if raw || len(recs.Items) == 0 {
		if recs.Text == "" {
			p.Muted("No recommendations yet.")
			return
		}

		fmt.Fprintln(p.out, recs.Text)
		return
	}

	rows := make([][]string, 0, len(recs.Items))
	for _, rec := range recs.Items {
		rows = append(rows, []string{
			strconv.Itoa(rec.Rank),
			rec.Title,
			rec.Author,
			optionalID(rec.BookID),
			rec.Reason,
		})
	}

	p.Title("Book Recommendations")
	p.Table([]string{"#", "Title", "Author", "Catalog ID", "Why"}, rows)
}

func statusLabel(status backend.Status) string {
	switch status {
	case backend.WantToRead:
		return "Want to read"
	case backend.CurrentlyReading:
		return "Currently reading"
	case backend.Read:
		return "Read"
	default:
		return string(status)
	}
}

func userBookTitle(userBook backend.UserBook) string {
	switch {
	case userBook.Book != nil:
		return fmt.Sprintf("%s by %s", userBook.Book.Title, userBook.Book.Author)
	case userBook.BookID != nil:
		return "#" + strconv.FormatInt(*userBook.BookID, 10)
	case userBook.ExternalBookID != nil:
		return *userBook.ExternalBookID
	default:
		return ""
	}
}

func stars(rate int) string {
	rate = max(0, min(rate, backend.MaxRating))
	return strings.Repeat("★", rate) + strings.Repeat("☆", backend.MaxRating-rate)
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}

	return strconv.FormatInt(*id, 10)
}
