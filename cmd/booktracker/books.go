package main

import (
	"strconv"

	"books.xdoubleu.com/pkg/backend"
	"github.com/spf13/cobra"
)

func (app *Application) booksCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse the catalog",
	}

	cmd.AddCommand(
		app.booksListCmd(),
		app.booksShowCmd(),
		app.booksAddCmd(),
		app.booksSearchCmd(),
		app.booksPopularCmd(),
	)

	return cmd
}

func (app *Application) booksListCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	params := backend.BookSearchParams{}

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List catalog books",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			params.Query = args[0]
		}

		page, err := app.services.Catalog.List(cmd.Context(), params)
		if err != nil {
			return err
		}

		app.out.Books(page)
		return nil
	})

	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 0, "books per page")
	cmd.Flags().StringVar(&params.Author, "author", "", "filter on author")
	cmd.Flags().StringVar(&params.Genre, "genre", "", "filter on genre")
	cmd.Flags().StringVar(&params.Language, "language", "", "filter on language")

	return cmd
}

func (app *Application) booksShowCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "show <book id>",
		Short: "Show a book with its reviews",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, args []string) error {
		bookID, err := parseID(args[0])
		if err != nil {
			return err
		}

		details, err := app.services.Catalog.Show(cmd.Context(), bookID)
		if err != nil {
			return err
		}

		app.out.BookDetails(details)
		return nil
	})

	return cmd
}

func (app *Application) booksAddCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	createBookDto := backend.CreateBookDto{}
	var description, isbn string
	var pageCount int

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		if description != "" {
			createBookDto.Description = &description
		}
		if isbn != "" {
			createBookDto.ISBN = &isbn
		}
		if pageCount > 0 {
			createBookDto.PageCount = &pageCount
		}

		book, err := app.services.Catalog.Create(cmd.Context(), createBookDto)
		if err != nil {
			return err
		}

		app.out.Success("Added %s by %s (id %s).", book.Title, book.Author, optionalID(book.ID))
		return nil
	})

	cmd.Flags().StringVar(&createBookDto.Title, "title", "", "book title")
	cmd.Flags().StringVar(&createBookDto.Author, "author", "", "book author")
	cmd.Flags().StringSliceVar(&createBookDto.Genres, "genre", nil, "book genres")
	cmd.Flags().StringVar(&description, "description", "", "book description")
	cmd.Flags().StringVar(&isbn, "isbn", "", "book isbn")
	cmd.Flags().IntVar(&pageCount, "pages", 0, "number of pages")

	return cmd
}

func (app *Application) booksSearchCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	params := backend.ExternalSearchParams{}

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search books outside of the catalog",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, args []string) error {
		params.Query = args[0]

		page, err := app.services.Catalog.SearchExternal(cmd.Context(), params)
		if err != nil {
			return err
		}

		app.out.ExternalBooks(page)
		return nil
	})

	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.MaxResults, "max-results", 0, "results per page")

	return cmd
}

func (app *Application) booksPopularCmd() *cobra.Command {
	var page, maxResults int

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show popular books",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		books, err := app.services.Catalog.Popular(cmd.Context(), page, maxResults)
		if err != nil {
			return err
		}

		app.out.ExternalBooks(books)
		return nil
	})

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "results per page")

	return cmd
}

func parseID(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}
