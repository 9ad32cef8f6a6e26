package rest

import (
	"context"
	"net/http"

	"github.com/qrorder-vn/qrorder-client/internal/models"
	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

// Login exchanges credentials for a bearer credential and the store's
// subdomain. Any failure surfaces as a login-form error.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	req := models.AuthRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeForbidden {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeAuthFailed, err, "login failed")
	}
	return &resp, nil
}
