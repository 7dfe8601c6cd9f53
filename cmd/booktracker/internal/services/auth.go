package services

import (
	"context"
	"errors"
	"strconv"

	"books.xdoubleu.com/cmd/booktracker/internal/dtos"
	"books.xdoubleu.com/pkg/backend"
	"github.com/getsentry/sentry-go"
)

var ErrNotSignedIn = errors.New("not signed in, run `booktracker login` first")

type AuthService struct {
	client backend.Client
}

func (service *AuthService) SignIn(
	ctx context.Context,
	signInDto *dtos.SignInDto,
) (*backend.User, error) {
	if err := validateDto(signInDto); err != nil {
		return nil, err
	}

	response, err := service.client.Login(ctx, signInDto.Email, signInDto.Password)
	if err != nil {
		return nil, err
	}

	user := response.User
	if user == nil {
		user, err = service.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
	}

	setSentryUser(user)

	return user, nil
}

func (service *AuthService) SignUp(
	ctx context.Context,
	signUpDto *dtos.SignUpDto,
) (*backend.User, error) {
	if err := validateDto(signUpDto); err != nil {
		return nil, err
	}

	return service.client.Signup(ctx, backend.SignupDto{
		Name:     signUpDto.Name,
		Email:    signUpDto.Email,
		Password: signUpDto.Password,
	})
}

func (service *AuthService) SignOut(ctx context.Context) error {
	return service.client.Logout(ctx)
}

// CurrentUser reports ErrNotSignedIn when there is no usable session.
func (service *AuthService) CurrentUser(ctx context.Context) (*backend.User, error) {
	user, err := service.client.Me(ctx)
	if errors.Is(err, backend.ErrSessionExpired) || errors.Is(err, backend.ErrUnauthorized) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, err
	}

	setSentryUser(user)

	return user, nil
}

func setSentryUser(user *backend.User) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		//nolint:exhaustruct //other fields are optional
		scope.SetUser(sentry.User{
			ID:    strconv.FormatInt(user.ID, 10),
			Email: user.Email,
		})
	})
}
