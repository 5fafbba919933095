package hyperliquid

import "encoding/json"

type Side string

const (
	SideAsk Side = "A"
	SideBid Side = "B"
)

// Tif is the time-in-force of a resting limit order.
type Tif string

const (
	// Add Liquidity Only
	TifAlo Tif = "Alo"
	// Immediate or Cancel
	TifIoc Tif = "Ioc"
	// Good Till Cancel
	TifGtc Tif = "Gtc"
)

type Tpsl string

const (
	TakeProfit Tpsl = "tp"
	StopLoss   Tpsl = "sl"
)

// Grouping ties the orders of one batch together on the book.
type Grouping string

const (
	GroupingNA           Grouping = "na"
	GroupingNormalTpsl   Grouping = "normalTpsl"
	GroupingPositionTpsl Grouping = "positionTpsl"
)

// DefaultSlippage is applied by the market-order helpers when the
// caller does not provide an explicit tolerance.
const DefaultSlippage = 0.05

// BuilderInfo attributes an order flow to a builder address collecting
// a fee measured in tenths of a basis point.
type BuilderInfo struct {
	Builder string `json:"b" msgpack:"b"`
	Fee     int    `json:"f" msgpack:"f"`
}

// LimitOrderType configures a resting order.
type LimitOrderType struct {
	Tif Tif `json:"tif"`
}

// TriggerOrderType configures a stop or take-profit order.
type TriggerOrderType struct {
	IsMarket  bool    `json:"isMarket"`
	TriggerPx float64 `json:"triggerPx"`
	Tpsl      Tpsl    `json:"tpsl"`
}

// OrderType is either a limit or a trigger configuration.
type OrderType struct {
	Limit   *LimitOrderType   `json:"limit,omitempty"`
	Trigger *TriggerOrderType `json:"trigger,omitempty"`
}

type AssetInfo struct {
	Name          string `json:"name"`
	SzDecimals    int    `json:"szDecimals"`
	MaxLeverage   int    `json:"maxLeverage"`
	MarginTableID int    `json:"marginTableId"`
	OnlyIsolated  bool   `json:"onlyIsolated"`
	IsDelisted    bool   `json:"isDelisted"`
}

// Meta is the perp listing universe; an asset's index in Universe is
// its wire asset id.
type Meta struct {
	Universe []AssetInfo `json:"universe"`
}

type SpotPairInfo struct {
	Name        string `json:"name"`
	Tokens      []int  `json:"tokens"`
	Index       int    `json:"index"`
	IsCanonical bool   `json:"isCanonical"`
}

type SpotTokenInfo struct {
	Name        string  `json:"name"`
	SzDecimals  int     `json:"szDecimals"`
	WeiDecimals int     `json:"weiDecimals"`
	Index       int     `json:"index"`
	TokenID     string  `json:"tokenId"`
	IsCanonical bool    `json:"isCanonical"`
	FullName    *string `json:"fullName"`
}

// SpotMeta is the spot listing universe. Pair indices are offset by
// spotAssetIndexOffset to share the asset id space with perps.
type SpotMeta struct {
	Universe []SpotPairInfo  `json:"universe"`
	Tokens   []SpotTokenInfo `json:"tokens"`
}

type Leverage struct {
	Type   string  `json:"type"`
	Value  int     `json:"value"`
	RawUsd *string `json:"rawUsd,omitempty"`
}

type CumFunding struct {
	AllTime     string `json:"allTime"`
	SinceOpen   string `json:"sinceOpen"`
	SinceChange string `json:"sinceChange"`
}

type Position struct {
	Coin           string     `json:"coin"`
	Szi            string     `json:"szi"`
	EntryPx        *string    `json:"entryPx"`
	PositionValue  string     `json:"positionValue"`
	UnrealizedPnl  string     `json:"unrealizedPnl"`
	ReturnOnEquity string     `json:"returnOnEquity"`
	LiquidationPx  *string    `json:"liquidationPx"`
	MarginUsed     string     `json:"marginUsed"`
	MaxLeverage    int        `json:"maxLeverage"`
	Leverage       Leverage   `json:"leverage"`
	CumFunding     CumFunding `json:"cumFunding"`
}

type AssetPosition struct {
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

type MarginSummary struct {
	AccountValue    string `json:"accountValue"`
	TotalMarginUsed string `json:"totalMarginUsed"`
	TotalNtlPos     string `json:"totalNtlPos"`
	TotalRawUsd     string `json:"totalRawUsd"`
}

// UserState is the clearinghouse snapshot for one address.
type UserState struct {
	AssetPositions     []AssetPosition `json:"assetPositions"`
	MarginSummary      MarginSummary   `json:"marginSummary"`
	CrossMarginSummary MarginSummary   `json:"crossMarginSummary"`
	Withdrawable       string          `json:"withdrawable"`
	Time               int64           `json:"time"`
}

type SpotBalance struct {
	Coin     string `json:"coin"`
	Token    int    `json:"token"`
	Hold     string `json:"hold"`
	Total    string `json:"total"`
	EntryNtl string `json:"entryNtl"`
}

type SpotUserState struct {
	Balances []SpotBalance `json:"balances"`
}

type OpenOrder struct {
	Coin      string  `json:"coin"`
	Side      Side    `json:"side"`
	LimitPx   string  `json:"limitPx"`
	Sz        string  `json:"sz"`
	Oid       int64   `json:"oid"`
	Timestamp int64   `json:"timestamp"`
	OrigSz    string  `json:"origSz"`
	Cloid     *string `json:"cloid,omitempty"`
}

type Fill struct {
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
	Cloid         *string `json:"cloid,omitempty"`
}

type BookLevel struct {
	Px string `json:"px"`
	Sz string `json:"sz"`
	N  int    `json:"n"`
}

type L2BookSnapshot struct {
	Coin   string        `json:"coin"`
	Time   int64         `json:"time"`
	Levels [][]BookLevel `json:"levels"`
}

type CandleSnapshot struct {
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

type RestingStatus struct {
	Oid   int64   `json:"oid"`
	Cloid *string `json:"cloid,omitempty"`
}

type FilledStatus struct {
	Oid     int64   `json:"oid"`
	TotalSz string  `json:"totalSz"`
	AvgPx   string  `json:"avgPx"`
	Cloid   *string `json:"cloid,omitempty"`
}

// isAckStatus reports whether a plain-string status is a successful
// acknowledgement. Trigger orders rest as waitingForTrigger until the
// trigger price prints; market orders may ack as waitingForFill.
func isAckStatus(s string) bool {
	switch s {
	case "success", "waitingForFill", "waitingForTrigger":
		return true
	}
	return false
}

// OrderStatus is one entry of an order placement response: exactly one
// of Resting, Filled, Status or Error is set. Status carries the
// plain-string acknowledgements ("success", "waitingForFill",
// "waitingForTrigger").
type OrderStatus struct {
	Resting *RestingStatus `json:"resting,omitempty"`
	Filled  *FilledStatus  `json:"filled,omitempty"`
	Status  string         `json:"-"`
	Error   string         `json:"error,omitempty"`
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	// Plain-string statuses come back for cancels and triggers.
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		if isAckStatus(plain) {
			*s = OrderStatus{Status: plain}
		} else {
			*s = OrderStatus{Error: plain}
		}
		return nil
	}

	type alias OrderStatus
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = OrderStatus(a)
	return nil
}

// OrderResponse is the data payload of an order or batchModify action.
type OrderResponse struct {
	Statuses []OrderStatus `json:"statuses"`
}

// StatusResponse is the data payload of actions that only acknowledge.
type StatusResponse struct {
	Statuses MixedArray `json:"statuses"`
}
