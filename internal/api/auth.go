package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an auth token.
func (c *Client) Login(ctx context.Context, in LoginInput) (string, error) {
	env, err := c.call(ctx, callOpts{
		op:     "login",
		method: http.MethodPost,
		path:   "auth/login",
		body:   in,
		public: true,
	})
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", &InvalidResponseError{Op: "login", Err: errMissingToken}
	}
	return env.Token, nil
}

// Signup registers a new account. The account still needs to log in
// afterwards; signup does not return a token.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*User, error) {
	env, err := c.call(ctx, callOpts{
		op:     "signup",
		method: http.MethodPost,
		path:   "auth/signup",
		body:   in,
		public: true,
	})
	if err != nil {
		return nil, err
	}
	var u User
	if err := decode("signup", env, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CurrentUser fetches the profile of the logged-in account.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	env, err := c.call(ctx, callOpts{
		op:     "current user",
		method: http.MethodGet,
		path:   "user/",
	})
	if err != nil {
		return nil, err
	}
	var u User
	if err := decode("current user", env, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
