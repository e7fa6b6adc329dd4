package backend

import (
	"context"
	"fmt"
	"net/http"

	pkgerrors "github.com/calcuttafresh/storefront/pkg/errors"
)

// FetchProfile loads the authenticated user's profile.
func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	status, raw, err := c.do(ctx, "fetch_profile", http.MethodGet, "/api/users/profile", token, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "session rejected by backend")
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodeNetworkFailure, serverMessage(raw, "failed to fetch profile"))
	}

	var profile Profile
	if err := decodeInto(raw, &profile, "fetch_profile"); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListAddresses returns the user's saved addresses. Failures degrade
// to an empty list so the checkout form still renders; the caller has
// no address to select and validation reports that instead.
func (c *Client) ListAddresses(ctx context.Context, token string) ([]Address, error) {
	status, raw, err := c.do(ctx, "list_addresses", http.MethodGet, "/api/users/addresses", token, nil)
	if err != nil {
		c.warn(ctx, "address fetch failed, returning empty list", err, 0)
		return []Address{}, nil
	}
	if !success(status) {
		c.warn(ctx, "address fetch failed, returning empty list", nil, status)
		return []Address{}, nil
	}

	addresses := []Address{}
	if err := decodeInto(raw, &addresses, "list_addresses"); err != nil {
		return []Address{}, nil
	}
	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, token string, input AddressInput) (*Address, error) {
	status, raw, err := c.do(ctx, "create_address", http.MethodPost, "/api/users/addresses", token, input)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodeNetworkFailure, serverMessage(raw, "failed to save address"))
	}

	var address Address
	if err := decodeInto(raw, &address, "create_address"); err != nil {
		return nil, err
	}
	return &address, nil
}

func (c *Client) UpdateAddress(ctx context.Context, token string, addressID int64, input AddressInput) (*Address, error) {
	path := fmt.Sprintf("/api/users/addresses/%d", addressID)
	status, raw, err := c.do(ctx, "update_address", http.MethodPut, path, token, input)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodeNetworkFailure, serverMessage(raw, "failed to update address"))
	}

	var address Address
	if err := decodeInto(raw, &address, "update_address"); err != nil {
		return nil, err
	}
	return &address, nil
}

func (c *Client) DeleteAddress(ctx context.Context, token string, addressID int64) error {
	path := fmt.Sprintf("/api/users/addresses/%d", addressID)
	status, raw, err := c.do(ctx, "delete_address", http.MethodDelete, path, token, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	if !success(status) {
		return pkgerrors.New(pkgerrors.CodeNetworkFailure, serverMessage(raw, "failed to delete address"))
	}
	return nil
}

// SendOTP asks the backend to dispatch a one-time password to the
// given phone number or email.
func (c *Client) SendOTP(ctx context.Context, req OTPRequest) error {
	status, raw, err := c.do(ctx, "send_otp", http.MethodPost, "/api/users/send-otp", "", req)
	if err != nil {
		return err
	}
	if !success(status) {
		return pkgerrors.New(pkgerrors.CodeValidation, serverMessage(raw, "failed to send OTP"))
	}
	return nil
}

// VerifyOTP exchanges a one-time password for a bearer token.
func (c *Client) VerifyOTP(ctx context.Context, req OTPVerification) (*TokenGrant, error) {
	status, raw, err := c.do(ctx, "verify_otp", http.MethodPost, "/api/users/verify-otp", "", req)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, serverMessage(raw, "invalid OTP"))
	}

	var grant TokenGrant
	if err := decodeInto(raw, &grant, "verify_otp"); err != nil {
		return nil, err
	}
	if grant.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNetworkFailure, "token missing from OTP response")
	}
	return &grant, nil
}
