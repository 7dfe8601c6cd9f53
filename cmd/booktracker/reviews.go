package main

import (
	"books.xdoubleu.com/cmd/booktracker/internal/dtos"
	"github.com/spf13/cobra"
)

func (app *Application) reviewsCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write reviews",
	}

	cmd.AddCommand(
		app.reviewsListCmd(),
		app.reviewsAddCmd(),
		app.reviewsEditCmd(),
		app.reviewsDeleteCmd(),
	)

	return cmd
}

func (app *Application) reviewsListCmd() *cobra.Command {
	var bookID int64

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reviews, optionally of one book",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		var filter *int64
		if cmd.Flags().Changed("book") {
			filter = &bookID
		}

		reviews, err := app.services.Reviews.List(cmd.Context(), filter)
		if err != nil {
			return err
		}

		app.out.Reviews(reviews)
		return nil
	})

	cmd.Flags().Int64Var(&bookID, "book", 0, "catalog book id")

	return cmd
}

func (app *Application) reviewsAddCmd() *cobra.Command {
	var ref bookRefFlags
	var content string
	var rate int

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Review a book",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, _ []string) error {
		review, err := app.services.Reviews.Add(cmd.Context(), &dtos.ReviewDto{
			BookRef: ref.ref(cmd),
			Content: content,
			Rate:    rate,
		})
		if err != nil {
			return err
		}

		app.out.Success("Review %d saved %s", review.ID, stars(review.Rate))
		return nil
	})

	ref.register(cmd)
	cmd.Flags().StringVar(&content, "content", "", "review text")
	cmd.Flags().IntVar(&rate, "rate", 0, "rating from 1 to 5")

	return cmd
}

func (app *Application) reviewsEditCmd() *cobra.Command {
	var content string
	var rate int

	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "edit <review id>",
		Short: "Change a review",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, args []string) error {
		reviewID, err := parseID(args[0])
		if err != nil {
			return err
		}

		//nolint:exhaustruct //other fields are optional
		editReviewDto := dtos.EditReviewDto{ReviewID: reviewID}
		if cmd.Flags().Changed("content") {
			editReviewDto.Content = &content
		}
		if cmd.Flags().Changed("rate") {
			editReviewDto.Rate = &rate
		}

		review, err := app.services.Reviews.Edit(cmd.Context(), &editReviewDto)
		if err != nil {
			return err
		}

		app.out.Success("Review %d updated %s", review.ID, stars(review.Rate))
		return nil
	})

	cmd.Flags().StringVar(&content, "content", "", "new review text")
	cmd.Flags().IntVar(&rate, "rate", 0, "new rating from 1 to 5")

	return cmd
}

func (app *Application) reviewsDeleteCmd() *cobra.Command {
	//nolint:exhaustruct //other fields are optional
	cmd := &cobra.Command{
		Use:   "delete <review id>",
		Short: "Delete a review",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = app.report(func(cmd *cobra.Command, args []string) error {
		reviewID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err = app.services.Reviews.Delete(cmd.Context(), reviewID); err != nil {
			return err
		}

		app.out.Success("Review deleted.")
		return nil
	})

	return cmd
}
