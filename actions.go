package hyperliquid

// Wire-format action structs. Field order is load-bearing: the msgpack
// encoder preserves struct order and the signature covers those bytes,
// so reordering a field changes the action hash.

// OrderWire is the single-order wire format.
type OrderWire struct {
	Asset      int           `json:"a"           msgpack:"a"`
	IsBuy      bool          `json:"b"           msgpack:"b"`
	LimitPx    string        `json:"p"           msgpack:"p"`
	Size       string        `json:"s"           msgpack:"s"`
	ReduceOnly bool          `json:"r"           msgpack:"r"`
	OrderType  orderTypeWire `json:"t"           msgpack:"t"`
	Cloid      *string       `json:"c,omitempty" msgpack:"c,omitempty"`
}

type orderTypeWire struct {
	Limit   *limitTypeWire   `json:"limit,omitempty"   msgpack:"limit,omitempty"`
	Trigger *triggerTypeWire `json:"trigger,omitempty" msgpack:"trigger,omitempty"`
}

type limitTypeWire struct {
	Tif Tif `json:"tif" msgpack:"tif"`
}

type triggerTypeWire struct {
	IsMarket  bool   `json:"isMarket"  msgpack:"isMarket"`
	TriggerPx string `json:"triggerPx" msgpack:"triggerPx"`
	Tpsl      Tpsl   `json:"tpsl"      msgpack:"tpsl"`
}

// OrderAction places a batch of orders under one grouping.
type OrderAction struct {
	Type     string       `json:"type"              msgpack:"type"`
	Orders   []OrderWire  `json:"orders"            msgpack:"orders"`
	Grouping Grouping     `json:"grouping"          msgpack:"grouping"`
	Builder  *BuilderInfo `json:"builder,omitempty" msgpack:"builder,omitempty"`
}

// CancelWire cancels by exchange-assigned order id.
type CancelWire struct {
	Asset int   `json:"a" msgpack:"a"`
	Oid   int64 `json:"o" msgpack:"o"`
}

type CancelAction struct {
	Type    string       `json:"type"    msgpack:"type"`
	Cancels []CancelWire `json:"cancels" msgpack:"cancels"`
}

// CancelByCloidWire cancels by client order id. Unlike CancelWire this
// uses long-form keys; the venue's cancelByCloid schema differs from
// the cancel schema.
type CancelByCloidWire struct {
	Asset int    `json:"asset" msgpack:"asset"`
	Cloid string `json:"cloid" msgpack:"cloid"`
}

type CancelByCloidAction struct {
	Type    string              `json:"type"    msgpack:"type"`
	Cancels []CancelByCloidWire `json:"cancels" msgpack:"cancels"`
}

// ModifyWire replaces the order identified by Oid with Order.
type ModifyWire struct {
	Oid   int64     `json:"oid"   msgpack:"oid"`
	Order OrderWire `json:"order" msgpack:"order"`
}

type BatchModifyAction struct {
	Type     string       `json:"type"     msgpack:"type"`
	Modifies []ModifyWire `json:"modifies" msgpack:"modifies"`
}

type UpdateLeverageAction struct {
	Type     string `json:"type"     msgpack:"type"`
	Asset    int    `json:"asset"    msgpack:"asset"`
	IsCross  bool   `json:"isCross"  msgpack:"isCross"`
	Leverage int    `json:"leverage" msgpack:"leverage"`
}

type UpdateIsolatedMarginAction struct {
	Type  string `json:"type"  msgpack:"type"`
	Asset int    `json:"asset" msgpack:"asset"`
	IsBuy bool   `json:"isBuy" msgpack:"isBuy"`
	Ntli  int64  `json:"ntli"  msgpack:"ntli"`
}

type SetReferrerAction struct {
	Type string `json:"type" msgpack:"type"`
	Code string `json:"code" msgpack:"code"`
}

type ScheduleCancelAction struct {
	Type string `json:"type"           msgpack:"type"`
	Time *int64 `json:"time,omitempty" msgpack:"time,omitempty"`
}

type CreateSubAccountAction struct {
	Type string `json:"type" msgpack:"type"`
	Name string `json:"name" msgpack:"name"`
}

type SubAccountTransferAction struct {
	Type           string `json:"type"           msgpack:"type"`
	SubAccountUser string `json:"subAccountUser" msgpack:"subAccountUser"`
	IsDeposit      bool   `json:"isDeposit"      msgpack:"isDeposit"`
	Usd            int64  `json:"usd"            msgpack:"usd"`
}

type VaultTransferAction struct {
	Type         string `json:"type"         msgpack:"type"`
	VaultAddress string `json:"vaultAddress" msgpack:"vaultAddress"`
	IsDeposit    bool   `json:"isDeposit"    msgpack:"isDeposit"`
	Usd          int64  `json:"usd"          msgpack:"usd"`
}

// SpotUserAction moves collateral between the spot and perp wallets.
// It is L1-signed, unlike the typed-data usdClassTransfer.
type SpotUserAction struct {
	Type          string            `json:"type"          msgpack:"type"`
	ClassTransfer ClassTransferWire `json:"classTransfer" msgpack:"classTransfer"`
}

type ClassTransferWire struct {
	Usdc   int64 `json:"usdc"   msgpack:"usdc"`
	ToPerp bool  `json:"toPerp" msgpack:"toPerp"`
}

// NoopAction burns a nonce without any effect. Useful to invalidate
// an in-flight action signed with the same nonce.
type NoopAction struct {
	Type string `json:"type" msgpack:"type"`
}
