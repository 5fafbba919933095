package hyperliquid

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Channel names used in the "channel" field of websocket frames.
const (
	ChannelAllMids                     = "allMids"
	ChannelTrades                      = "trades"
	ChannelL2Book                      = "l2Book"
	ChannelBbo                         = "bbo"
	ChannelCandle                      = "candle"
	ChannelNotification                = "notification"
	ChannelWebData2                    = "webData2"
	ChannelOrderUpdates                = "orderUpdates"
	ChannelUser                        = "user"
	ChannelUserEvents                  = "userEvents"
	ChannelUserFills                   = "userFills"
	ChannelUserFundings                = "userFundings"
	ChannelUserNonFundingLedgerUpdates = "userNonFundingLedgerUpdates"
	ChannelActiveAssetCtx              = "activeAssetCtx"
	ChannelActiveSpotAssetCtx          = "activeSpotAssetCtx"
	ChannelActiveAssetData             = "activeAssetData"
	ChannelSubscriptionResponse        = "subscriptionResponse"
	ChannelPong                        = "pong"
	ChannelError                       = "error"
)

// Message is one decoded websocket frame. The concrete type is
// determined by the frame's channel; switch on it to consume a feed.
type Message interface {
	Channel() string
}

// NoData marks a connection drop: the feed has a gap at this point and
// consumers holding derived state should resynchronize.
type NoData struct{}

func (NoData) Channel() string { return "noData" }

// Pong acknowledges a heartbeat ping.
type Pong struct{}

func (Pong) Channel() string { return ChannelPong }

// SubscriptionAck confirms a subscribe or unsubscribe request.
type SubscriptionAck struct {
	Raw json.RawMessage
}

func (SubscriptionAck) Channel() string { return ChannelSubscriptionResponse }

// ErrorMessage is a venue-reported protocol error.
type ErrorMessage struct {
	Data string
}

func (ErrorMessage) Channel() string { return ChannelError }

type WsTrade struct {
	Coin  string    `json:"coin"`
	Side  Side      `json:"side"`
	Px    string    `json:"px"`
	Sz    string    `json:"sz"`
	Time  int64     `json:"time"`
	Hash  string    `json:"hash"`
	Tid   int64     `json:"tid"`
	Users [2]string `json:"users"`
}

type Trades []WsTrade

func (Trades) Channel() string { return ChannelTrades }

type AllMids struct {
	Mids map[string]string `json:"mids"`
}

func (AllMids) Channel() string { return ChannelAllMids }

type L2Book struct {
	Coin   string        `json:"coin"`
	Time   int64         `json:"time"`
	Levels [][]BookLevel `json:"levels"`
}

func (L2Book) Channel() string { return ChannelL2Book }

// Bbo carries the best bid and ask; either side may be null when the
// book is one-sided.
type Bbo struct {
	Coin string        `json:"coin"`
	Time int64         `json:"time"`
	Bbo  [2]*BookLevel `json:"bbo"`
}

func (Bbo) Channel() string { return ChannelBbo }

type Candle struct {
	TimeOpen  int64  `json:"t"`
	TimeClose int64  `json:"T"`
	Coin      string `json:"s"`
	Interval  string `json:"i"`
	Open      string `json:"o"`
	Close     string `json:"c"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Volume    string `json:"v"`
	NumTrades int64  `json:"n"`
}

func (Candle) Channel() string { return ChannelCandle }

type Notification struct {
	Notification string `json:"notification"`
}

func (Notification) Channel() string { return ChannelNotification }

// WebData2 is the aggregate frontend payload; its shape shifts with
// venue releases so it is kept raw.
type WebData2 struct {
	Raw json.RawMessage
}

func (WebData2) Channel() string { return ChannelWebData2 }

type WsBasicOrder struct {
	Coin      string  `json:"coin"`
	Side      Side    `json:"side"`
	LimitPx   string  `json:"limitPx"`
	Sz        string  `json:"sz"`
	Oid       int64   `json:"oid"`
	Timestamp int64   `json:"timestamp"`
	OrigSz    string  `json:"origSz"`
	Cloid     *string `json:"cloid"`
}

type OrderUpdate struct {
	Order           WsBasicOrder `json:"order"`
	Status          string       `json:"status"`
	StatusTimestamp int64        `json:"statusTimestamp"`
}

type OrderUpdates []OrderUpdate

func (OrderUpdates) Channel() string { return ChannelOrderUpdates }

type UserFill struct {
	Coin          string  `json:"coin"`
	Px            string  `json:"px"`
	Sz            string  `json:"sz"`
	Side          Side    `json:"side"`
	Time          int64   `json:"time"`
	StartPosition string  `json:"startPosition"`
	Dir           string  `json:"dir"`
	ClosedPnl     string  `json:"closedPnl"`
	Hash          string  `json:"hash"`
	Oid           int64   `json:"oid"`
	Crossed       bool    `json:"crossed"`
	Fee           string  `json:"fee"`
	FeeToken      string  `json:"feeToken"`
	Tid           int64   `json:"tid"`
	Cloid         *string `json:"cloid"`
}

type UserFills struct {
	IsSnapshot bool       `json:"isSnapshot"`
	User       string     `json:"user"`
	Fills      []UserFill `json:"fills"`
}

func (UserFills) Channel() string { return ChannelUserFills }

// UserEvents multiplexes fills, fundings, liquidations and forced
// cancels; exactly one field is set per message.
type UserEvents struct {
	Fills         []UserFill      `json:"fills,omitempty"`
	Funding       *UserFunding    `json:"funding,omitempty"`
	Liquidation   *Liquidation    `json:"liquidation,omitempty"`
	NonUserCancel []NonUserCancel `json:"nonUserCancel,omitempty"`
}

func (UserEvents) Channel() string { return ChannelUser }

type UserFunding struct {
	Time        int64  `json:"time"`
	Coin        string `json:"coin"`
	Usdc        string `json:"usdc"`
	Szi         string `json:"szi"`
	FundingRate string `json:"fundingRate"`
}

type Liquidation struct {
	Lid                    int64  `json:"lid"`
	Liquidator             string `json:"liquidator"`
	LiquidatedUser         string `json:"liquidated_user"`
	LiquidatedNtlPos       string `json:"liquidated_ntl_pos"`
	LiquidatedAccountValue string `json:"liquidated_account_value"`
}

type NonUserCancel struct {
	Coin string `json:"coin"`
	Oid  int64  `json:"oid"`
}

type UserFundings struct {
	IsSnapshot bool                `json:"isSnapshot"`
	User       string              `json:"user"`
	Fundings   []UserFundingUpdate `json:"fundings"`
}

func (UserFundings) Channel() string { return ChannelUserFundings }

type UserFundingUpdate struct {
	Time        int64  `json:"time"`
	Coin        string `json:"coin"`
	Usdc        string `json:"usdc"`
	Szi         string `json:"szi"`
	FundingRate string `json:"fundingRate"`
}

// UserNonFundingLedgerUpdates covers deposits, withdrawals, transfers
// and liquidation ledger deltas. Delta shapes vary by type and are kept
// raw.
type UserNonFundingLedgerUpdates struct {
	IsSnapshot bool           `json:"isSnapshot"`
	User       string         `json:"user"`
	Updates    []LedgerUpdate `json:"nonFundingLedgerUpdates"`
}

func (UserNonFundingLedgerUpdates) Channel() string { return ChannelUserNonFundingLedgerUpdates }

type LedgerUpdate struct {
	Time  int64           `json:"time"`
	Hash  string          `json:"hash"`
	Delta json.RawMessage `json:"delta"`
}

type ActiveAssetCtx struct {
	Coin string          `json:"coin"`
	Ctx  json.RawMessage `json:"ctx"`
}

func (ActiveAssetCtx) Channel() string { return ChannelActiveAssetCtx }

type ActiveSpotAssetCtx struct {
	Coin string          `json:"coin"`
	Ctx  json.RawMessage `json:"ctx"`
}

func (ActiveSpotAssetCtx) Channel() string { return ChannelActiveSpotAssetCtx }

type ActiveAssetData struct {
	User             string   `json:"user"`
	Coin             string   `json:"coin"`
	Leverage         Leverage `json:"leverage"`
	MaxTradeSzs      []string `json:"maxTradeSzs"`
	AvailableToTrade []string `json:"availableToTrade"`
}

func (ActiveAssetData) Channel() string { return ChannelActiveAssetData }

type wsEnvelope struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

func decodeInto[T Message](env wsEnvelope) (Message, error) {
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return nil, fmt.Errorf("channel %s: %w", env.Channel, err)
	}
	return v, nil
}

// decodeMessage maps a raw frame to its typed message by channel.
// Unknown channels are an error; the caller logs and drops them.
func decodeMessage(frame []byte) (Message, error) {
	var env wsEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Channel {
	case ChannelPong:
		return Pong{}, nil
	case ChannelSubscriptionResponse:
		return SubscriptionAck{Raw: env.Data}, nil
	case ChannelError:
		var s string
		if err := json.Unmarshal(env.Data, &s); err != nil {
			s = string(env.Data)
		}
		return ErrorMessage{Data: s}, nil
	case ChannelAllMids:
		return decodeInto[AllMids](env)
	case ChannelTrades:
		return decodeInto[Trades](env)
	case ChannelL2Book:
		return decodeInto[L2Book](env)
	case ChannelBbo:
		return decodeInto[Bbo](env)
	case ChannelCandle:
		return decodeInto[Candle](env)
	case ChannelNotification:
		return decodeInto[Notification](env)
	case ChannelWebData2:
		return WebData2{Raw: env.Data}, nil
	case ChannelOrderUpdates:
		return decodeInto[OrderUpdates](env)
	case ChannelUser, ChannelUserEvents:
		return decodeInto[UserEvents](env)
	case ChannelUserFills:
		return decodeInto[UserFills](env)
	case ChannelUserFundings:
		return decodeInto[UserFundings](env)
	case ChannelUserNonFundingLedgerUpdates:
		return decodeInto[UserNonFundingLedgerUpdates](env)
	case ChannelActiveAssetCtx:
		return decodeInto[ActiveAssetCtx](env)
	case ChannelActiveSpotAssetCtx:
		return decodeInto[ActiveSpotAssetCtx](env)
	case ChannelActiveAssetData:
		return decodeInto[ActiveAssetData](env)
	default:
		return nil, fmt.Errorf("unknown channel %q", env.Channel)
	}
}
