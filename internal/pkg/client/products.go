package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

// CreateResponse is the answer of a POST that creates a record.
type CreateResponse struct {
	*Response
	ID string
}

type ProductListResponse struct {
	*Response
	List serverest.ProductList
}

type ProductResponse struct {
	*Response
	Product serverest.Product
}

// CreateProduct posts payload as is, so callers may send extra or malformed members.
func (c *Client) CreateProduct(ctx context.Context, authorization string, payload interface{}) (*CreateResponse, error) {
	resp, err := c.do(ctx, call{
		operation:     "create_product",
		method:        http.MethodPost,
		path:          serverest.PathProducts,
		authorization: authorization,
		body:          payload,
	})
	if err != nil {
		return nil, err
	}
	return created("create_product", resp)
}

// ListProducts queries GET /produtos; filter keys are API field names such as "nome".
func (c *Client) ListProducts(ctx context.Context, filter url.Values) (*ProductListResponse, error) {
	resp, err := c.do(ctx, call{
		operation: "list_products",
		method:    http.MethodGet,
		path:      serverest.PathProducts,
		query:     filter,
	})
	if err != nil {
		return nil, err
	}
	out := &ProductListResponse{Response: resp}
	if resp.HTTPStatus == http.StatusOK {
		if err := decode("list_products", resp, &out.List); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	resp, err := c.do(ctx, call{
		operation: "get_product",
		method:    http.MethodGet,
		path:      serverest.PathProducts + "/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}
	out := &ProductResponse{Response: resp}
	if resp.HTTPStatus == http.StatusOK {
		if err := decode("get_product", resp, &out.Product); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateProduct sends PUT /produtos/{id}. An unknown id makes the API create the
// record and answer 201.
func (c *Client) UpdateProduct(ctx context.Context, authorization, id string, payload interface{}) (*CreateResponse, error) {
	resp, err := c.do(ctx, call{
		operation:     "update_product",
		method:        http.MethodPut,
		path:          serverest.PathProducts + "/" + url.PathEscape(id),
		authorization: authorization,
		body:          payload,
	})
	if err != nil {
		return nil, err
	}
	return created("update_product", resp)
}

func (c *Client) DeleteProduct(ctx context.Context, authorization, id string) (*Response, error) {
	return c.do(ctx, call{
		operation:     "delete_product",
		method:        http.MethodDelete,
		path:          serverest.PathProducts + "/" + url.PathEscape(id),
		authorization: authorization,
	})
}

func created(operation string, resp *Response) (*CreateResponse, error) {
	out := &CreateResponse{Response: resp}
	if resp.HTTPStatus == http.StatusCreated {
		var body serverest.CreatedBody
		if err := decode(operation, resp, &body); err != nil {
			return nil, err
		}
		out.ID = body.ID
	}
	return out, nil
}
