package hyperliquid

import "strings"

// Subscription identifies one websocket feed. Key is the dedup
// identity: two subscriptions with equal keys address the same feed.
type Subscription interface {
	Key() string
	payload() map[string]any
}

func subKey(parts ...string) string {
	return strings.Join(parts, ":")
}

type AllMidsSubscription struct{}

func (AllMidsSubscription) Key() string { return ChannelAllMids }

func (AllMidsSubscription) payload() map[string]any {
	return map[string]any{"type": "allMids"}
}

type TradesSubscription struct {
	Coin string
}

func (s TradesSubscription) Key() string { return subKey(ChannelTrades, s.Coin) }

func (s TradesSubscription) payload() map[string]any {
	return map[string]any{"type": "trades", "coin": s.Coin}
}

type L2BookSubscription struct {
	Coin string
}

func (s L2BookSubscription) Key() string { return subKey(ChannelL2Book, s.Coin) }

func (s L2BookSubscription) payload() map[string]any {
	return map[string]any{"type": "l2Book", "coin": s.Coin}
}

type BboSubscription struct {
	Coin string
}

func (s BboSubscription) Key() string { return subKey(ChannelBbo, s.Coin) }

func (s BboSubscription) payload() map[string]any {
	return map[string]any{"type": "bbo", "coin": s.Coin}
}

type CandleSubscription struct {
	Coin     string
	Interval string
}

func (s CandleSubscription) Key() string { return subKey(ChannelCandle, s.Coin, s.Interval) }

func (s CandleSubscription) payload() map[string]any {
	return map[string]any{"type": "candle", "coin": s.Coin, "interval": s.Interval}
}

type NotificationSubscription struct {
	User string
}

func (s NotificationSubscription) Key() string { return subKey(ChannelNotification, s.User) }

func (s NotificationSubscription) payload() map[string]any {
	return map[string]any{"type": "notification", "user": s.User}
}

type WebData2Subscription struct {
	User string
}

func (s WebData2Subscription) Key() string { return subKey(ChannelWebData2, s.User) }

func (s WebData2Subscription) payload() map[string]any {
	return map[string]any{"type": "webData2", "user": s.User}
}

type OrderUpdatesSubscription struct {
	User string
}

func (s OrderUpdatesSubscription) Key() string { return subKey(ChannelOrderUpdates, s.User) }

func (s OrderUpdatesSubscription) payload() map[string]any {
	return map[string]any{"type": "orderUpdates", "user": s.User}
}

type UserEventsSubscription struct {
	User string
}

func (s UserEventsSubscription) Key() string { return subKey(ChannelUserEvents, s.User) }

func (s UserEventsSubscription) payload() map[string]any {
	return map[string]any{"type": "userEvents", "user": s.User}
}

type UserFillsSubscription struct {
	User string
}

func (s UserFillsSubscription) Key() string { return subKey(ChannelUserFills, s.User) }

func (s UserFillsSubscription) payload() map[string]any {
	return map[string]any{"type": "userFills", "user": s.User}
}

type UserFundingsSubscription struct {
	User string
}

func (s UserFundingsSubscription) Key() string { return subKey(ChannelUserFundings, s.User) }

func (s UserFundingsSubscription) payload() map[string]any {
	return map[string]any{"type": "userFundings", "user": s.User}
}

type UserNonFundingLedgerUpdatesSubscription struct {
	User string
}

func (s UserNonFundingLedgerUpdatesSubscription) Key() string {
	return subKey(ChannelUserNonFundingLedgerUpdates, s.User)
}

func (s UserNonFundingLedgerUpdatesSubscription) payload() map[string]any {
	return map[string]any{"type": "userNonFundingLedgerUpdates", "user": s.User}
}

type ActiveAssetCtxSubscription struct {
	Coin string
}

func (s ActiveAssetCtxSubscription) Key() string { return subKey(ChannelActiveAssetCtx, s.Coin) }

func (s ActiveAssetCtxSubscription) payload() map[string]any {
	return map[string]any{"type": "activeAssetCtx", "coin": s.Coin}
}

type ActiveAssetDataSubscription struct {
	User string
	Coin string
}

func (s ActiveAssetDataSubscription) Key() string {
	return subKey(ChannelActiveAssetData, s.User, s.Coin)
}

func (s ActiveAssetDataSubscription) payload() map[string]any {
	return map[string]any{"type": "activeAssetData", "user": s.User, "coin": s.Coin}
}
