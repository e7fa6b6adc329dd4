package backend

import (
	"context"
	"net/http"
)

// FetchSlots returns the available delivery slots. Like addresses,
// a failure degrades to an empty list so the page still renders.
func (c *Client) FetchSlots(ctx context.Context, token string) ([]Slot, error) {
	status, raw, err := c.do(ctx, "fetch_slots", http.MethodGet, "/api/slots", token, nil)
	if err != nil {
		c.warn(ctx, "slot fetch failed, returning empty list", err, 0)
		return []Slot{}, nil
	}
	if !success(status) {
		c.warn(ctx, "slot fetch failed, returning empty list", nil, status)
		return []Slot{}, nil
	}

	slots := []Slot{}
	if err := decodeInto(raw, &slots, "fetch_slots"); err != nil {
		return []Slot{}, nil
	}
	return slots, nil
}
