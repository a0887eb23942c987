package netmaker

import (
	"context"
	"errors"
	"net/http"

	"github.com/oriolrius/nmctl/pkg/metrics"
)

// authResponse is the envelope of the login endpoint
type authResponse struct {
	Response struct {
		AuthToken string `json:"AuthToken"`
	} `json:"Response"`
}

// Authenticate resolves the configured credentials into a bearer token.
// A master key is used verbatim with no network round trip; otherwise a
// login exchange runs against the API. The token lives only for this
// client instance, never cached across invocations.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.cfg.MasterKey != "" {
		c.token = c.cfg.MasterKey
		return nil
	}
	return c.login(ctx, c.cfg.Username, c.cfg.Password)
}

// login exchanges username/password for a short-lived token
func (c *Client) login(ctx context.Context, username, password string) error {
	payload := map[string]string{
		"username": username,
		"password": password,
	}

	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/users/adm/authenticate", payload, &resp)
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()

		var connErr *ConnectivityError
		if errors.As(err, &connErr) {
			return err
		}
		return &AuthError{Reason: "login rejected", Err: err}
	}

	if resp.Response.AuthToken == "" {
		metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
		return &AuthError{Reason: "no token in login response"}
	}

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	c.token = resp.Response.AuthToken
	c.logger.Debug().Str("username", username).Msg("login exchange succeeded")
	return nil
}
