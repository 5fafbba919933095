package hyperliquid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okOrderResponse = `{
	"status": "ok",
	"response": {"type": "order", "data": {"statuses": [{"resting": {"oid": 77738308}}]}}
}`

const okDefaultResponse = `{"status": "ok", "response": {"type": "default"}}`

// exchangeHarness runs an Exchange against a local server and records
// every payload posted to the exchange endpoint.
type exchangeHarness struct {
	t  *testing.T
	ex *Exchange

	mu           sync.Mutex
	payloads     []map[string]any
	exchangeResp string
	infoResp     func(req map[string]any) string
}

func newExchangeHarness(t *testing.T, vaultAddr string) *exchangeHarness {
	t.Helper()

	h := &exchangeHarness{t: t, exchangeResp: okOrderResponse}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		h.mu.Lock()
		defer h.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/exchange":
			h.payloads = append(h.payloads, req)
			_, _ = w.Write([]byte(h.exchangeResp))
		case "/info":
			require.NotNil(t, h.infoResp, "unexpected info request: %v", req)
			_, _ = w.Write([]byte(h.infoResp(req)))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	meta := &Meta{
		Universe: []AssetInfo{
			{Name: "BTC", SzDecimals: 5},
			{Name: "ETH", SzDecimals: 4},
		},
	}
	spotMeta := &SpotMeta{
		Tokens: []SpotTokenInfo{
			{Name: "USDC", Index: 0, SzDecimals: 8},
			{Name: "PURR", Index: 1, SzDecimals: 0},
		},
		Universe: []SpotPairInfo{
			{Name: "PURR/USDC", Tokens: []int{1, 0}, Index: 0},
		},
	}

	ex, err := NewExchange(
		context.Background(),
		testWallet(t),
		srv.URL,
		meta,
		spotMeta,
		vaultAddr,
		"0x1719884eb866cb12b2287399b15f7db5e7d775ea",
	)
	require.NoError(t, err)
	h.ex = ex

	return h
}

func (h *exchangeHarness) setExchangeResponse(body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exchangeResp = body
}

func (h *exchangeHarness) lastPayload() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(h.t, h.payloads, "no exchange payload recorded")
	return h.payloads[len(h.payloads)-1]
}

func limitOrderRequest() OrderRequest {
	return OrderRequest{
		Coin:      "ETH",
		IsBuy:     true,
		Sz:        3.5,
		LimitPx:   2000.0,
		OrderType: OrderType{Limit: &LimitOrderType{Tif: TifGtc}},
	}
}

func TestExchangeOrderPayload(t *testing.T) {
	h := newExchangeHarness(t, "")

	cloid := CloidFromString("0x1e60610f0b3d420597c88c1fed2ad5ee")
	req := limitOrderRequest()
	req.Cloid = &cloid

	resp, err := h.ex.Order(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Statuses, 1)
	require.NotNil(t, resp.Statuses[0].Resting)
	assert.Equal(t, int64(77738308), resp.Statuses[0].Resting.Oid)

	payload := h.lastPayload()

	action, ok := payload["action"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "order", action["type"])
	assert.Equal(t, "na", action["grouping"])
	assert.NotContains(t, action, "builder")

	orders, ok := action["orders"].([]any)
	require.True(t, ok)
	require.Len(t, orders, 1)
	order := orders[0].(map[string]any)
	assert.Equal(t, float64(1), order["a"])
	assert.Equal(t, true, order["b"])
	assert.Equal(t, "2000", order["p"])
	assert.Equal(t, "3.5", order["s"])
	assert.Equal(t, false, order["r"])
	assert.Equal(t, "0x1e60610f0b3d420597c88c1fed2ad5ee", order["c"])
	assert.Equal(t, map[string]any{"limit": map[string]any{"tif": "Gtc"}}, order["t"])

	nonce, ok := payload["nonce"].(float64)
	require.True(t, ok)
	assert.Greater(t, nonce, float64(0))

	sig, ok := payload["signature"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, sig, "r")
	assert.Contains(t, sig, "s")
	assert.Contains(t, sig, "v")

	assert.NotContains(t, payload, "vaultAddress")
	assert.NotContains(t, payload, "expiresAfter")
}

func TestExchangeOrderWithBuilderLowercasesAddress(t *testing.T) {
	h := newExchangeHarness(t, "")

	builder := &BuilderInfo{Builder: "0xABCDEF0123456789abcdef0123456789ABCDEF01", Fee: 10}
	_, err := h.ex.OrderWithBuilder(context.Background(), limitOrderRequest(), builder)
	require.NoError(t, err)

	action := h.lastPayload()["action"].(map[string]any)
	b := action["builder"].(map[string]any)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", b["b"])
	assert.Equal(t, float64(10), b["f"])

	// The caller's struct is left untouched.
	assert.Equal(t, "0xABCDEF0123456789abcdef0123456789ABCDEF01", builder.Builder)
}

func TestExchangeVaultAddress(t *testing.T) {
	vault := "0x1719884eb866cb12b2287399b15f7db5e7d775ea"
	h := newExchangeHarness(t, vault)

	_, err := h.ex.Order(context.Background(), limitOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, vault, h.lastPayload()["vaultAddress"])
}

func TestExchangeExpiresAfter(t *testing.T) {
	h := newExchangeHarness(t, "")

	expiry := int64(1700000000000)
	h.ex.SetExpiresAfter(&expiry)

	_, err := h.ex.Order(context.Background(), limitOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, float64(expiry), h.lastPayload()["expiresAfter"])

	h.ex.SetExpiresAfter(nil)
	_, err = h.ex.Order(context.Background(), limitOrderRequest())
	require.NoError(t, err)
	assert.NotContains(t, h.lastPayload(), "expiresAfter")
}

func TestExchangeOrderVenueRejection(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.setExchangeResponse(`{"status": "err", "response": "Order must have minimum value of $10"}`)

	_, err := h.ex.Order(context.Background(), limitOrderRequest())
	require.Error(t, err)
	assert.EqualError(t, err, "Order must have minimum value of $10")
}

func TestExchangeOrderUnknownCoin(t *testing.T) {
	h := newExchangeHarness(t, "")

	req := limitOrderRequest()
	req.Coin = "DOGE"
	_, err := h.ex.Order(context.Background(), req)
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestExchangeCancelPayload(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.setExchangeResponse(`{
		"status": "ok",
		"response": {"type": "cancel", "data": {"statuses": ["success"]}}
	}`)

	_, err := h.ex.Cancel(context.Background(), "ETH", 82382)
	require.NoError(t, err)

	action := h.lastPayload()["action"].(map[string]any)
	assert.Equal(t, "cancel", action["type"])
	cancels := action["cancels"].([]any)
	require.Len(t, cancels, 1)
	assert.Equal(t, map[string]any{"a": float64(1), "o": float64(82382)}, cancels[0])
}

func TestExchangeCancelStatusError(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.setExchangeResponse(`{
		"status": "ok",
		"response": {"type": "cancel", "data": {"statuses": [{"error": "Order was never placed, already canceled, or filled."}]}}
	}`)

	_, err := h.ex.Cancel(context.Background(), "ETH", 82382)
	require.Error(t, err)
	assert.EqualError(t, err, "Order was never placed, already canceled, or filled.")
}

func TestExchangeBatchModifyPayload(t *testing.T) {
	h := newExchangeHarness(t, "")

	_, err := h.ex.Modify(context.Background(), 82382, limitOrderRequest())
	require.NoError(t, err)

	action := h.lastPayload()["action"].(map[string]any)
	assert.Equal(t, "batchModify", action["type"])
	modifies := action["modifies"].([]any)
	require.Len(t, modifies, 1)
	m := modifies[0].(map[string]any)
	assert.Equal(t, float64(82382), m["oid"])
	order := m["order"].(map[string]any)
	assert.Equal(t, "2000", order["p"])
}

func TestExchangeScheduleCancel(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.setExchangeResponse(okDefaultResponse)

	at := int64(1700000060000)
	_, err := h.ex.ScheduleCancel(context.Background(), &at)
	require.NoError(t, err)
	action := h.lastPayload()["action"].(map[string]any)
	assert.Equal(t, "scheduleCancel", action["type"])
	assert.Equal(t, float64(at), action["time"])

	_, err = h.ex.ScheduleCancel(context.Background(), nil)
	require.NoError(t, err)
	action = h.lastPayload()["action"].(map[string]any)
	assert.NotContains(t, action, "time")
}

func TestExchangeMarketOpen(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.infoResp = func(req map[string]any) string {
		require.Equal(t, "allMids", req["type"])
		return `{"BTC": "29792.0", "ETH": "2000.0"}`
	}

	_, err := h.ex.MarketOpen(context.Background(), MarketOrderParams{
		Coin:  "ETH",
		IsBuy: true,
		Sz:    3.5,
	})
	require.NoError(t, err)

	action := h.lastPayload()["action"].(map[string]any)
	order := action["orders"].([]any)[0].(map[string]any)
	// Mid 2000 plus the default 5% tolerance.
	assert.Equal(t, "2100", order["p"])
	assert.Equal(t, "3.5", order["s"])
	assert.Equal(t, false, order["r"])
	assert.Equal(t, map[string]any{"limit": map[string]any{"tif": "Ioc"}}, order["t"])
}

func TestExchangeMarketClose(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.infoResp = func(req map[string]any) string {
		switch req["type"] {
		case "clearinghouseState":
			return `{"assetPositions": [{"type": "oneWay", "position": {"coin": "ETH", "szi": "1.5"}}]}`
		case "allMids":
			return `{"ETH": "2000.0"}`
		default:
			t.Errorf("unexpected info request: %v", req)
			return `{}`
		}
	}

	_, err := h.ex.MarketClose(context.Background(), MarketOrderParams{Coin: "ETH"})
	require.NoError(t, err)

	action := h.lastPayload()["action"].(map[string]any)
	order := action["orders"].([]any)[0].(map[string]any)
	// Long position, so the close is an aggressive sell.
	assert.Equal(t, false, order["b"])
	assert.Equal(t, "1900", order["p"])
	assert.Equal(t, "1.5", order["s"])
	assert.Equal(t, true, order["r"])
}

func TestExchangeMarketCloseNoPosition(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.infoResp = func(req map[string]any) string {
		return `{"assetPositions": []}`
	}

	_, err := h.ex.MarketClose(context.Background(), MarketOrderParams{Coin: "ETH"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no open position")
}

func TestExchangeUpdateLeverage(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.setExchangeResponse(okDefaultResponse)

	_, err := h.ex.UpdateLeverage(context.Background(), "ETH", true, 21)
	require.NoError(t, err)

	action := h.lastPayload()["action"].(map[string]any)
	assert.Equal(t, "updateLeverage", action["type"])
	assert.Equal(t, float64(1), action["asset"])
	assert.Equal(t, true, action["isCross"])
	assert.Equal(t, float64(21), action["leverage"])
}

func TestExchangeVaultTransferRequiresVault(t *testing.T) {
	h := newExchangeHarness(t, "")

	_, err := h.ex.VaultTransfer(context.Background(), true, 5)
	require.ErrorIs(t, err, ErrVaultAddressNotFound)
}

func TestExchangeUsdTransferPayload(t *testing.T) {
	h := newExchangeHarness(t, "")
	h.setExchangeResponse(okDefaultResponse)

	_, err := h.ex.UsdTransfer(context.Background(), "0x0d1d9635d0640821d15e323ac8adade65d8ebc7a", "12.5")
	require.NoError(t, err)

	payload := h.lastPayload()
	action := payload["action"].(map[string]any)
	assert.Equal(t, "usdSend", action["type"])
	assert.Equal(t, "12.5", action["amount"])
	assert.Equal(t, "Mainnet", action["hyperliquidChain"])
	assert.Equal(t, signatureChainID, action["signatureChainId"])
	// The action's own timestamp is the payload nonce.
	assert.Equal(t, payload["nonce"], action["time"])
}

func TestExchangeUsdClassTransferWithVault(t *testing.T) {
	vault := "0x1719884eb866cb12b2287399b15f7db5e7d775ea"
	h := newExchangeHarness(t, vault)
	h.setExchangeResponse(okDefaultResponse)

	_, err := h.ex.UsdClassTransfer(context.Background(), "100", true)
	require.NoError(t, err)

	payload := h.lastPayload()
	action := payload["action"].(map[string]any)
	assert.Equal(t, "usdClassTransfer", action["type"])
	assert.Equal(t, "100 subaccount:"+vault, action["amount"])
	assert.Equal(t, true, action["toPerp"])

	// The sub-account rides inside the action; a top-level vault
	// address would be rejected by the venue.
	v, present := payload["vaultAddress"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestExchangeResumeNonce(t *testing.T) {
	h := newExchangeHarness(t, "")

	future := int64(9_000_000_000_000)
	h.ex.ResumeNonce(future)

	_, err := h.ex.Order(context.Background(), limitOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, float64(future+1), h.lastPayload()["nonce"])
}
