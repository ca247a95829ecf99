package zabbix

import (
	"context"
	"fmt"
)

// Login authenticates against the API and returns the session token. The
// call is resolved at LevelData regardless of the client's configured
// content level: login must produce the plain token string, never a
// further-normalized shape. The level is an explicit argument here, not
// shared state saved and restored around the call.
func (c *Client) Login(ctx context.Context) (string, error) {
	res, err := c.CallLevel(ctx, LevelData, "user.login", Params{
		"user":     c.username,
		"password": c.password,
	}, nil)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", fmt.Errorf("zabbix: login rejected for user %q", c.username)
	}
	token, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("zabbix: login result is %T, expected token string", res)
	}
	return token, nil
}

// Logout invalidates a session token.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.CallLevel(ctx, LevelData, "user.logout", Params{}, &token)
	return err
}

// authed runs one authenticated method call. A fresh login is issued per
// outer operation; tokens are never cached, so every operation is two
// sequential round-trips.
func (c *Client) authed(ctx context.Context, method string, params Params) (any, error) {
	token, err := c.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("zabbix: %s: %w", method, err)
	}
	return c.Call(ctx, method, params, &token)
}
