package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

type UserListResponse struct {
	*Response
	List serverest.UserList
}

type UserResponse struct {
	*Response
	User serverest.User
}

// CreateUser posts payload as is. authorization is optional: the public deployment
// accepts anonymous user writes, the harness still sends the admin token.
func (c *Client) CreateUser(ctx context.Context, authorization string, payload interface{}) (*CreateResponse, error) {
	resp, err := c.do(ctx, call{
		operation:     "create_user",
		method:        http.MethodPost,
		path:          serverest.PathUsers,
		authorization: authorization,
		body:          payload,
	})
	if err != nil {
		return nil, err
	}
	return created("create_user", resp)
}

func (c *Client) ListUsers(ctx context.Context, filter url.Values) (*UserListResponse, error) {
	resp, err := c.do(ctx, call{
		operation: "list_users",
		method:    http.MethodGet,
		path:      serverest.PathUsers,
		query:     filter,
	})
	if err != nil {
		return nil, err
	}
	out := &UserListResponse{Response: resp}
	if resp.HTTPStatus == http.StatusOK {
		if err := decode("list_users", resp, &out.List); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	resp, err := c.do(ctx, call{
		operation: "get_user",
		method:    http.MethodGet,
		path:      serverest.PathUsers + "/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}
	out := &UserResponse{Response: resp}
	if resp.HTTPStatus == http.StatusOK {
		if err := decode("get_user", resp, &out.User); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) UpdateUser(ctx context.Context, authorization, id string, payload interface{}) (*CreateResponse, error) {
	resp, err := c.do(ctx, call{
		operation:     "update_user",
		method:        http.MethodPut,
		path:          serverest.PathUsers + "/" + url.PathEscape(id),
		authorization: authorization,
		body:          payload,
	})
	if err != nil {
		return nil, err
	}
	return created("update_user", resp)
}

func (c *Client) DeleteUser(ctx context.Context, authorization, id string) (*Response, error) {
	return c.do(ctx, call{
		operation:     "delete_user",
		method:        http.MethodDelete,
		path:          serverest.PathUsers + "/" + url.PathEscape(id),
		authorization: authorization,
	})
}
