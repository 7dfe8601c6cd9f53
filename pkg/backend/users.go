package backend

import (
	"context"
	"fmt"
)

const UsersEndpoint = "/users"

type User struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	CreatedAt      *string `json:"created_at,omitempty"`
	UpdatedAt      *string `json:"updated_at,omitempty"`
}

type UpdateProfileDto struct {
	Name *string `json:"name,omitempty"`
}

func (client *client) Me(ctx context.Context) (*User, error) {
	//nolint:exhaustruct //other fields are optional
	opts := RequestOptions{NoCache: true}

	var user User
	err := client.Get(ctx, UsersEndpoint+"/me", opts, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (client *client) UpdateProfile(
	ctx context.Context,
	updateProfileDto UpdateProfileDto,
) (*User, error) {
	var user User
	err := client.Put(
		ctx,
		UsersEndpoint+"/me/profile",
		updateProfileDto,
		RequestOptions{}, //nolint:exhaustruct //defaults
		&user,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (client *client) GetUser(ctx context.Context, userID int64) (*User, error) {
	endpoint := fmt.Sprintf("%s/%d", UsersEndpoint, userID)

	var user User
	//nolint:exhaustruct //defaults
	err := client.Get(ctx, endpoint, RequestOptions{}, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (client *client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	//nolint:exhaustruct //defaults
	err := client.Get(ctx, UsersEndpoint, RequestOptions{}, &users)
	if err != nil {
		return nil, err
	}

	return users, nil
}
