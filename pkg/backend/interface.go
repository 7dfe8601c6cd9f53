package backend

import "context"

type Requester interface {
	Get(ctx context.Context, path string, opts RequestOptions, dst any) error
	Post(ctx context.Context, path string, body any, opts RequestOptions, dst any) error
	Put(ctx context.Context, path string, body any, opts RequestOptions, dst any) error
	Delete(ctx context.Context, path string, opts RequestOptions, dst any) error
}

type Client interface {
	Requester

	Login(ctx context.Context, username string, password string) (*AuthResponse, error)
	Signup(ctx context.Context, signupDto SignupDto) (*User, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	Me(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, updateProfileDto UpdateProfileDto) (*User, error)
	GetUser(ctx context.Context, userID int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)

	ListBooks(ctx context.Context, params BookSearchParams) (*Page[Book], error)
	GetBook(ctx context.Context, bookID int64) (*Book, error)
	CreateBook(ctx context.Context, createBookDto CreateBookDto) (*Book, error)
	SearchExternalBooks(
		ctx context.Context,
		params ExternalSearchParams,
	) (*Page[ExternalBook], error)
	GetPopularBooks(
		ctx context.Context,
		page int,
		maxResults int,
	) (*Page[ExternalBook], error)
	GetExternalBook(ctx context.Context, externalID string) (*ExternalBook, error)

	AddUserBook(ctx context.Context, createUserBookDto CreateUserBookDto) (*UserBook, error)
	MyBooks(ctx context.Context) ([]UserBook, error)
	UserBookForBook(ctx context.Context, bookID int64) (*UserBook, error)
	UserBookForExternalBook(ctx context.Context, externalID string) (*UserBook, error)
	UpdateUserBookStatus(
		ctx context.Context,
		userBookID int64,
		status Status,
	) (*UserBook, error)
	RemoveUserBook(ctx context.Context, userBookID int64) error
	UserBooksByStatus(ctx context.Context, status Status) ([]UserBook, error)

	CreateReview(ctx context.Context, createReviewDto CreateReviewDto) (*Review, error)
	ListReviews(ctx context.Context) ([]Review, error)
	GetReview(ctx context.Context, reviewID int64) (*Review, error)
	ReviewsForBook(ctx context.Context, bookID int64) ([]Review, error)
	UpdateReview(
		ctx context.Context,
		reviewID int64,
		updateReviewDto UpdateReviewDto,
	) (*Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error

	GetRecommendations(ctx context.Context, userID int64) (string, error)
}
