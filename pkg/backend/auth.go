package backend

import (
	"context"

	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
)

const AuthEndpoint = "/auth"

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	User         *User  `json:"user,omitempty"`
}

type SignupDto struct {
	Name     string `schema:"name"`
	Email    string `schema:"email"`
	Password string `schema:"password"`
}

// LoginDto is the OAuth2 password form the token endpoint expects.
type LoginDto struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
}

// Login exchanges credentials for a session. A 401 here means bad
// credentials, so it never goes through the refresh path.
func (client *client) Login(
	ctx context.Context,
	username string,
	password string,
) (*AuthResponse, error) {
	form, err := httptools.WriteForm(LoginDto{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct //other fields are optional
	opts := RequestOptions{noRefresh: true}

	var response AuthResponse
	err = client.Post(ctx, AuthEndpoint+"/token", form, opts, &response)
	if err != nil {
		return nil, err
	}

	// legacy backends only return the tokens in the body
	current := client.currentSession()
	if current.AccessToken == "" && response.AccessToken != "" {
		current.AccessToken = response.AccessToken
		if current.RefreshToken == "" {
			current.RefreshToken = response.RefreshToken
		}
		client.setSession(current)
	}

	client.mirrorSession(ctx)
	client.clearCache(ctx)

	return &response, nil
}

func (client *client) Signup(ctx context.Context, signupDto SignupDto) (*User, error) {
	form, err := httptools.WriteForm(signupDto)
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct //other fields are optional
	opts := RequestOptions{noRefresh: true}

	var user User
	err = client.Post(ctx, AuthEndpoint+"/signup", form, opts, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Logout always drops the local session, even when the backend call fails.
func (client *client) Logout(ctx context.Context) error {
	//nolint:exhaustruct //other fields are optional
	opts := RequestOptions{noRefresh: true}

	err := client.Post(ctx, AuthEndpoint+"/logout", nil, opts, nil)
	client.clearSession(ctx)

	return err
}

func (client *client) Refresh(ctx context.Context) error {
	if client.baseURL == "" {
		return ErrMissingBaseURL
	}

	client.seedSession(ctx)

	return client.refresher.Refresh(ctx, client.refresher.Epoch())
}
