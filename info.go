package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
)

const infoPath = "/info"

// Info queries the venue's read-only info endpoint and owns the asset
// registry built from the listing universes.
type Info struct {
	debug    bool
	client   *Client
	registry *AssetRegistry

	clientOpts []ClientOpt
}

// NewInfo builds an info client. When meta or spotMeta is nil the
// missing universe is fetched from the endpoint so the registry is
// always complete.
func NewInfo(ctx context.Context, baseURL string, meta *Meta, spotMeta *SpotMeta, opts ...InfoOpt) (*Info, error) {
	info := &Info{}

	for _, opt := range opts {
		opt.Apply(info)
	}

	if info.debug {
		info.clientOpts = append(info.clientOpts, ClientOptDebugMode())
	}

	info.client = NewClient(baseURL, info.clientOpts...)

	if meta == nil {
		m, err := info.Meta(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch perp meta: %w", err)
		}
		meta = m
	}
	if spotMeta == nil {
		m, err := info.SpotMeta(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch spot meta: %w", err)
		}
		spotMeta = m
	}

	info.registry = NewAssetRegistry(meta, spotMeta)

	return info, nil
}

// Registry exposes the coin-to-asset resolution table.
func (i *Info) Registry() *AssetRegistry {
	return i.registry
}

func (i *Info) query(ctx context.Context, req map[string]any, result any) error {
	resp, err := i.client.post(ctx, infoPath, req)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp, result)
}

// Meta returns the perp listing universe.
func (i *Info) Meta(ctx context.Context) (*Meta, error) {
	var meta Meta
	if err := i.query(ctx, map[string]any{"type": "meta"}, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// SpotMeta returns the spot listing universe.
func (i *Info) SpotMeta(ctx context.Context) (*SpotMeta, error) {
	var meta SpotMeta
	if err := i.query(ctx, map[string]any{"type": "spotMeta"}, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// UserState returns the perp clearinghouse snapshot for an address.
func (i *Info) UserState(ctx context.Context, address string) (*UserState, error) {
	var state UserState
	req := map[string]any{"type": "clearinghouseState", "user": address}
	if err := i.query(ctx, req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SpotUserState returns the spot balances for an address.
func (i *Info) SpotUserState(ctx context.Context, address string) (*SpotUserState, error) {
	var state SpotUserState
	req := map[string]any{"type": "spotClearinghouseState", "user": address}
	if err := i.query(ctx, req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// OpenOrders returns the resting orders of an address.
func (i *Info) OpenOrders(ctx context.Context, address string) ([]OpenOrder, error) {
	var orders []OpenOrder
	req := map[string]any{"type": "openOrders", "user": address}
	if err := i.query(ctx, req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UserFills returns recent fills of an address, newest first.
func (i *Info) UserFills(ctx context.Context, address string) ([]Fill, error) {
	var fills []Fill
	req := map[string]any{"type": "userFills", "user": address}
	if err := i.query(ctx, req, &fills); err != nil {
		return nil, err
	}
	return fills, nil
}

// AllMids returns the mid price of every listed coin.
func (i *Info) AllMids(ctx context.Context) (map[string]string, error) {
	var mids map[string]string
	if err := i.query(ctx, map[string]any{"type": "allMids"}, &mids); err != nil {
		return nil, err
	}
	return mids, nil
}

// L2Snapshot returns the current book for a coin.
func (i *Info) L2Snapshot(ctx context.Context, coin string) (*L2BookSnapshot, error) {
	var book L2BookSnapshot
	req := map[string]any{"type": "l2Book", "coin": coin}
	if err := i.query(ctx, req, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CandleSnapshot returns candles for a coin in [startTime, endTime],
// both in unix milliseconds.
func (i *Info) CandleSnapshot(ctx context.Context, coin, interval string, startTime, endTime int64) ([]CandleSnapshot, error) {
	var candles []CandleSnapshot
	req := map[string]any{
		"type": "candleSnapshot",
		"req": map[string]any{
			"coin":      coin,
			"interval":  interval,
			"startTime": startTime,
			"endTime":   endTime,
		},
	}
	if err := i.query(ctx, req, &candles); err != nil {
		return nil, err
	}
	return candles, nil
}

// OrderStatusByOid looks up an order by exchange-assigned id.
func (i *Info) OrderStatusByOid(ctx context.Context, address string, oid int64) (MixedValue, error) {
	var status MixedValue
	req := map[string]any{"type": "orderStatus", "user": address, "oid": oid}
	if err := i.query(ctx, req, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// UserFees returns the fee schedule snapshot of an address.
func (i *Info) UserFees(ctx context.Context, address string) (MixedValue, error) {
	var fees MixedValue
	req := map[string]any{"type": "userFees", "user": address}
	if err := i.query(ctx, req, &fees); err != nil {
		return nil, err
	}
	return fees, nil
}
