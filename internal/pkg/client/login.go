package client

import (
	"context"
	"net/http"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

// LoginResponse is the answer of POST /login.
type LoginResponse struct {
	*Response
	// Authorization is the full "Bearer <jwt>" value, empty on failure.
	Authorization string
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.do(ctx, call{
		operation: "login",
		method:    http.MethodPost,
		path:      serverest.PathLogin,
		body:      serverest.LoginRequest{Email: email, Password: password},
	})
	if err != nil {
		return nil, err
	}
	out := &LoginResponse{Response: resp}
	if resp.HTTPStatus != http.StatusOK {
		return out, nil
	}
	var body serverest.LoginBody
	if err := decode("login", resp, &body); err != nil {
		return nil, err
	}
	out.Authorization = body.Authorization
	return out, nil
}
