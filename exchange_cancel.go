package hyperliquid

import "context"

// CancelRequest identifies an order to cancel by exchange id.
type CancelRequest struct {
	Coin string
	Oid  int64
}

// CancelByCloidRequest identifies an order to cancel by client id.
type CancelByCloidRequest struct {
	Coin  string
	Cloid Cloid
}

// Cancel cancels a single order by exchange id.
func (e *Exchange) Cancel(ctx context.Context, coin string, oid int64) (*StatusResponse, error) {
	return e.BulkCancel(ctx, []CancelRequest{{Coin: coin, Oid: oid}})
}

// BulkCancel cancels a batch of orders under one signature.
func (e *Exchange) BulkCancel(ctx context.Context, cancels []CancelRequest) (*StatusResponse, error) {
	wires := make([]CancelWire, 0, len(cancels))
	for _, c := range cancels {
		asset, err := e.info.Registry().Asset(c.Coin)
		if err != nil {
			return nil, err
		}
		wires = append(wires, CancelWire{Asset: asset, Oid: c.Oid})
	}

	action := CancelAction{
		Type:    "cancel",
		Cancels: wires,
	}

	return e.executeStatusAction(ctx, action)
}

// CancelByCloid cancels a single order by client id.
func (e *Exchange) CancelByCloid(ctx context.Context, coin string, cloid Cloid) (*StatusResponse, error) {
	return e.BulkCancelByCloid(ctx, []CancelByCloidRequest{{Coin: coin, Cloid: cloid}})
}

// BulkCancelByCloid cancels a batch of orders by client id.
func (e *Exchange) BulkCancelByCloid(ctx context.Context, cancels []CancelByCloidRequest) (*StatusResponse, error) {
	wires := make([]CancelByCloidWire, 0, len(cancels))
	for _, c := range cancels {
		asset, err := e.info.Registry().Asset(c.Coin)
		if err != nil {
			return nil, err
		}
		wires = append(wires, CancelByCloidWire{Asset: asset, Cloid: c.Cloid.String()})
	}

	action := CancelByCloidAction{
		Type:    "cancelByCloid",
		Cancels: wires,
	}

	return e.executeStatusAction(ctx, action)
}

// ScheduleCancel arms the dead man's switch: all open orders are
// cancelled at the given time (unix ms), or the trigger is cleared when
// t is nil.
func (e *Exchange) ScheduleCancel(ctx context.Context, t *int64) (*StatusResponse, error) {
	action := ScheduleCancelAction{
		Type: "scheduleCancel",
		Time: t,
	}

	return e.executeStatusAction(ctx, action)
}

// executeStatusAction runs an acknowledgement-style action and lifts
// venue-reported rejections into errors.
func (e *Exchange) executeStatusAction(ctx context.Context, action any) (*StatusResponse, error) {
	var resp ExchangeResponse[StatusResponse]
	if err := e.executeAction(ctx, action, &resp); err != nil {
		return nil, err
	}
	if err := resp.FirstError(); err != nil {
		return nil, err
	}
	if err := resp.Data.Statuses.FirstError(); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
