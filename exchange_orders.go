package hyperliquid

import (
	"context"
	"fmt"
	"strings"
)

// OrderRequest is the caller-facing order shape with float prices and
// coin names; it is converted to wire form at submission time.
type OrderRequest struct {
	Coin       string
	IsBuy      bool
	Sz         float64
	LimitPx    float64
	ReduceOnly bool
	OrderType  OrderType
	Cloid      *Cloid
}

// MarketOrderParams drives the market-open and market-close helpers.
// Px is the reference price; zero means "use the current mid".
// Slippage of zero falls back to DefaultSlippage.
type MarketOrderParams struct {
	Coin     string
	IsBuy    bool
	Sz       float64
	Px       float64
	Slippage float64
	Cloid    *Cloid
}

// orderToWire converts a request to wire format. Prices and sizes are
// canonicalized; a value that cannot round-trip through the canonical
// form fails here rather than producing an unverifiable signature.
func (e *Exchange) orderToWire(req OrderRequest) (OrderWire, error) {
	asset, err := e.info.Registry().Asset(req.Coin)
	if err != nil {
		return OrderWire{}, err
	}

	limitPx, err := floatToWire(req.LimitPx)
	if err != nil {
		return OrderWire{}, fmt.Errorf("limit price for %s: %w", req.Coin, err)
	}
	sz, err := floatToWire(req.Sz)
	if err != nil {
		return OrderWire{}, fmt.Errorf("size for %s: %w", req.Coin, err)
	}

	wire := OrderWire{
		Asset:      asset,
		IsBuy:      req.IsBuy,
		LimitPx:    limitPx,
		Size:       sz,
		ReduceOnly: req.ReduceOnly,
	}

	switch {
	case req.OrderType.Limit != nil:
		wire.OrderType.Limit = &limitTypeWire{Tif: req.OrderType.Limit.Tif}
	case req.OrderType.Trigger != nil:
		triggerPx, err := floatToWire(req.OrderType.Trigger.TriggerPx)
		if err != nil {
			return OrderWire{}, fmt.Errorf("trigger price for %s: %w", req.Coin, err)
		}
		wire.OrderType.Trigger = &triggerTypeWire{
			IsMarket:  req.OrderType.Trigger.IsMarket,
			TriggerPx: triggerPx,
			Tpsl:      req.OrderType.Trigger.Tpsl,
		}
	default:
		return OrderWire{}, fmt.Errorf("order for %s has no order type", req.Coin)
	}

	if req.Cloid != nil && !req.Cloid.IsZero() {
		cloid := req.Cloid.String()
		wire.Cloid = &cloid
	}

	return wire, nil
}

// Order places a single order.
func (e *Exchange) Order(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	return e.BulkOrders(ctx, []OrderRequest{req}, GroupingNA, nil)
}

// OrderWithBuilder places a single order attributing flow to a builder.
func (e *Exchange) OrderWithBuilder(ctx context.Context, req OrderRequest, builder *BuilderInfo) (*OrderResponse, error) {
	return e.BulkOrders(ctx, []OrderRequest{req}, GroupingNA, builder)
}

// BulkOrders places a batch of orders under one signature.
func (e *Exchange) BulkOrders(
	ctx context.Context,
	orders []OrderRequest,
	grouping Grouping,
	builder *BuilderInfo,
) (*OrderResponse, error) {
	wires := make([]OrderWire, 0, len(orders))
	for _, req := range orders {
		wire, err := e.orderToWire(req)
		if err != nil {
			return nil, err
		}
		wires = append(wires, wire)
	}

	if builder != nil {
		b := *builder
		b.Builder = strings.ToLower(b.Builder)
		builder = &b
	}

	action := OrderAction{
		Type:     "order",
		Orders:   wires,
		Grouping: grouping,
		Builder:  builder,
	}

	var resp ExchangeResponse[OrderResponse]
	if err := e.executeAction(ctx, action, &resp); err != nil {
		return nil, err
	}
	if err := resp.FirstError(); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// MarketOpen submits an aggressive IOC order at the slippage-adjusted
// price. With Px unset the current mid is used as the reference.
func (e *Exchange) MarketOpen(ctx context.Context, params MarketOrderParams) (*OrderResponse, error) {
	px, err := e.slippagePrice(ctx, params)
	if err != nil {
		return nil, err
	}

	return e.Order(ctx, OrderRequest{
		Coin:       params.Coin,
		IsBuy:      params.IsBuy,
		Sz:         params.Sz,
		LimitPx:    px,
		OrderType:  OrderType{Limit: &LimitOrderType{Tif: TifIoc}},
		Cloid:      params.Cloid,
		ReduceOnly: false,
	})
}

// MarketClose flattens the current position in a coin with a
// reduce-only IOC order. With Sz unset the full position is closed.
func (e *Exchange) MarketClose(ctx context.Context, params MarketOrderParams) (*OrderResponse, error) {
	address := e.accountAddr
	if e.vault != "" {
		address = e.vault
	}

	state, err := e.info.UserState(ctx, address)
	if err != nil {
		return nil, err
	}

	var szi float64
	found := false
	for _, ap := range state.AssetPositions {
		if ap.Position.Coin == params.Coin {
			szi = parseFloat(ap.Position.Szi)
			found = true
			break
		}
	}
	if !found || szi == 0 {
		return nil, fmt.Errorf("no open position in %s", params.Coin)
	}

	params.IsBuy = szi < 0
	if params.Sz == 0 {
		if szi < 0 {
			params.Sz = -szi
		} else {
			params.Sz = szi
		}
	}

	px, err := e.slippagePrice(ctx, params)
	if err != nil {
		return nil, err
	}

	return e.Order(ctx, OrderRequest{
		Coin:       params.Coin,
		IsBuy:      params.IsBuy,
		Sz:         params.Sz,
		LimitPx:    px,
		OrderType:  OrderType{Limit: &LimitOrderType{Tif: TifIoc}},
		Cloid:      params.Cloid,
		ReduceOnly: true,
	})
}

func (e *Exchange) slippagePrice(ctx context.Context, params MarketOrderParams) (float64, error) {
	registry := e.info.Registry()
	asset, err := registry.Asset(params.Coin)
	if err != nil {
		return 0, err
	}

	px := params.Px
	if px == 0 {
		mids, err := e.info.AllMids(ctx)
		if err != nil {
			return 0, err
		}
		symbol := params.Coin
		if s, ok := registry.Symbol(params.Coin); ok {
			symbol = s
		}
		mid, ok := mids[symbol]
		if !ok {
			return 0, fmt.Errorf("no mid price for %s", params.Coin)
		}
		px = parseFloat(mid)
	}

	slippage := params.Slippage
	if slippage == 0 {
		slippage = DefaultSlippage
	}

	return registry.SlippagePrice(asset, params.IsBuy, slippage, px)
}

// Modify replaces the order identified by oid in a single action.
func (e *Exchange) Modify(ctx context.Context, oid int64, req OrderRequest) (*OrderResponse, error) {
	return e.BatchModify(ctx, []ModifyRequest{{Oid: oid, Order: req}})
}

// ModifyRequest pairs an existing order id with its replacement.
type ModifyRequest struct {
	Oid   int64
	Order OrderRequest
}

// BatchModify replaces a batch of orders under one signature.
func (e *Exchange) BatchModify(ctx context.Context, modifies []ModifyRequest) (*OrderResponse, error) {
	wires := make([]ModifyWire, 0, len(modifies))
	for _, m := range modifies {
		wire, err := e.orderToWire(m.Order)
		if err != nil {
			return nil, err
		}
		wires = append(wires, ModifyWire{Oid: m.Oid, Order: wire})
	}

	action := BatchModifyAction{
		Type:     "batchModify",
		Modifies: wires,
	}

	var resp ExchangeResponse[OrderResponse]
	if err := e.executeAction(ctx, action, &resp); err != nil {
		return nil, err
	}
	if err := resp.FirstError(); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
