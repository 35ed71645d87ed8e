package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/gymflow/billing"
	"github.com/jrsteele09/gymflow/members"
	"github.com/jrsteele09/gymflow/tenants"
)

const (
	PathGyms     = "/api/gyms/"
	PathCheckout = "/api/billing/checkout/"
)

func MembersPath(gymID string) string {
	return fmt.Sprintf("/api/gyms/%s/members/", url.PathEscape(gymID))
}

func MemberPath(gymID, memberID string) string {
	return fmt.Sprintf("/api/gyms/%s/members/%s/", url.PathEscape(gymID), url.PathEscape(memberID))
}

// MemberDeletePath has no trailing slash; the API routes it that way.
func MemberDeletePath(gymID, memberID string) string {
	return fmt.Sprintf("/api/gyms/%s/members/%s/delete", url.PathEscape(gymID), url.PathEscape(memberID))
}

func ExpiringPath(gymID string) string {
	return fmt.Sprintf("/api/gyms/%s/members/expiring/", url.PathEscape(gymID))
}

// ListGyms returns the gyms visible to the logged-in account.
func (c *Client) ListGyms(ctx context.Context) ([]tenants.Gym, error) {
	gyms := make([]tenants.Gym, 0)
	if err := c.do(ctx, call{method: http.MethodGet, path: PathGyms, out: &gyms}); err != nil {
		return nil, err
	}
	return gyms, nil
}

// CreateGym returns the stored gym including its new id.
func (c *Client) CreateGym(ctx context.Context, in tenants.GymInput) (tenants.Gym, error) {
	var gym tenants.Gym
	if err := c.do(ctx, call{method: http.MethodPost, path: PathGyms, in: in, out: &gym}); err != nil {
		return tenants.Gym{}, err
	}
	return gym, nil
}

// ListMembers lists a gym's members. A blank search lists everyone.
func (c *Client) ListMembers(ctx context.Context, gymID, search string) ([]members.Member, error) {
	var query url.Values
	if s := strings.TrimSpace(search); s != "" {
		query = url.Values{"search": {s}}
	}
	list := make([]members.Member, 0)
	if err := c.do(ctx, call{method: http.MethodGet, path: MembersPath(gymID), query: query, out: &list}); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateMember(ctx context.Context, gymID string, form members.Form) (members.Member, error) {
	var m members.Member
	if err := c.do(ctx, call{method: http.MethodPost, path: MembersPath(gymID), in: form, out: &m}); err != nil {
		return members.Member{}, err
	}
	return m, nil
}

func (c *Client) UpdateMember(ctx context.Context, gymID, memberID string, form members.Form) (members.Member, error) {
	var m members.Member
	if err := c.do(ctx, call{method: http.MethodPatch, path: MemberPath(gymID, memberID), in: form, out: &m}); err != nil {
		return members.Member{}, err
	}
	return m, nil
}

func (c *Client) DeleteMember(ctx context.Context, gymID, memberID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: MemberDeletePath(gymID, memberID)})
}

// ExpiringMembers returns members whose plan ends within days, as filtered by the server.
func (c *Client) ExpiringMembers(ctx context.Context, gymID string, days int) ([]members.Member, error) {
	query := url.Values{"days": {strconv.Itoa(days)}}
	list := make([]members.Member, 0)
	if err := c.do(ctx, call{method: http.MethodGet, path: ExpiringPath(gymID), query: query, out: &list}); err != nil {
		return nil, err
	}
	return list, nil
}

// Checkout starts a subscription and returns the payment widget handoff.
func (c *Client) Checkout(ctx context.Context, req billing.CheckoutRequest) (billing.CheckoutResponse, error) {
	var resp billing.CheckoutResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: PathCheckout, in: req, out: &resp}); err != nil {
		return billing.CheckoutResponse{}, err
	}
	return resp, nil
}
