package hyperliquid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessage(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		want  Message
	}{
		{
			name:  "pong",
			frame: `{"channel": "pong"}`,
			want:  Pong{},
		},
		{
			name:  "subscription ack",
			frame: `{"channel": "subscriptionResponse", "data": {"method": "subscribe", "subscription": {"type": "allMids"}}}`,
			want:  SubscriptionAck{Raw: []byte(`{"method": "subscribe", "subscription": {"type": "allMids"}}`)},
		},
		{
			name:  "error",
			frame: `{"channel": "error", "data": "Already subscribed: {\"type\":\"allMids\"}"}`,
			want:  ErrorMessage{Data: `Already subscribed: {"type":"allMids"}`},
		},
		{
			name:  "all mids",
			frame: `{"channel": "allMids", "data": {"mids": {"BTC": "29792.0", "ETH": "2000.5"}}}`,
			want:  AllMids{Mids: map[string]string{"BTC": "29792.0", "ETH": "2000.5"}},
		},
		{
			name: "trades",
			frame: `{"channel": "trades", "data": [
				{"coin": "ETH", "side": "A", "px": "2000.5", "sz": "0.25", "time": 1700000000000, "hash": "0xabc", "tid": 42, "users": ["0x1", "0x2"]}
			]}`,
			want: Trades{{
				Coin: "ETH", Side: SideAsk, Px: "2000.5", Sz: "0.25",
				Time: 1700000000000, Hash: "0xabc", Tid: 42, Users: [2]string{"0x1", "0x2"},
			}},
		},
		{
			name: "l2 book",
			frame: `{"channel": "l2Book", "data": {"coin": "ETH", "time": 1700000000000, "levels": [
				[{"px": "2000.4", "sz": "10", "n": 3}],
				[{"px": "2000.6", "sz": "7", "n": 2}]
			]}}`,
			want: L2Book{
				Coin: "ETH",
				Time: 1700000000000,
				Levels: [][]BookLevel{
					{{Px: "2000.4", Sz: "10", N: 3}},
					{{Px: "2000.6", Sz: "7", N: 2}},
				},
			},
		},
		{
			name:  "bbo with one-sided book",
			frame: `{"channel": "bbo", "data": {"coin": "ETH", "time": 1700000000000, "bbo": [{"px": "2000.4", "sz": "10", "n": 3}, null]}}`,
			want: Bbo{
				Coin: "ETH",
				Time: 1700000000000,
				Bbo:  [2]*BookLevel{{Px: "2000.4", Sz: "10", N: 3}, nil},
			},
		},
		{
			name:  "candle",
			frame: `{"channel": "candle", "data": {"t": 1, "T": 2, "s": "ETH", "i": "1m", "o": "9", "c": "10", "h": "11", "l": "8", "v": "100", "n": 5}}`,
			want: Candle{
				TimeOpen: 1, TimeClose: 2, Coin: "ETH", Interval: "1m",
				Open: "9", Close: "10", High: "11", Low: "8", Volume: "100", NumTrades: 5,
			},
		},
		{
			name:  "user events funding",
			frame: `{"channel": "user", "data": {"funding": {"time": 1, "coin": "ETH", "usdc": "-0.5", "szi": "2", "fundingRate": "0.0000125"}}}`,
			want: UserEvents{
				Funding: &UserFunding{Time: 1, Coin: "ETH", Usdc: "-0.5", Szi: "2", FundingRate: "0.0000125"},
			},
		},
		{
			name:  "user fills snapshot",
			frame: `{"channel": "userFills", "data": {"isSnapshot": true, "user": "0x1", "fills": [{"coin": "ETH", "px": "2000", "sz": "1", "side": "B", "oid": 7, "tid": 8}]}}`,
			want: UserFills{
				IsSnapshot: true,
				User:       "0x1",
				Fills:      []UserFill{{Coin: "ETH", Px: "2000", Sz: "1", Side: SideBid, Oid: 7, Tid: 8}},
			},
		},
		{
			name:  "order updates",
			frame: `{"channel": "orderUpdates", "data": [{"order": {"coin": "ETH", "side": "B", "limitPx": "2000", "sz": "1", "oid": 7, "timestamp": 1, "origSz": "1"}, "status": "open", "statusTimestamp": 2}]}`,
			want: OrderUpdates{{
				Order:           WsBasicOrder{Coin: "ETH", Side: SideBid, LimitPx: "2000", Sz: "1", Oid: 7, Timestamp: 1, OrigSz: "1"},
				Status:          "open",
				StatusTimestamp: 2,
			}},
		},
		{
			name:  "notification",
			frame: `{"channel": "notification", "data": {"notification": "You were liquidated"}}`,
			want:  Notification{Notification: "You were liquidated"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeMessage([]byte(tc.frame))
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("decoded message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeMessageRejects(t *testing.T) {
	_, err := decodeMessage([]byte(`{broken`))
	require.Error(t, err)

	_, err = decodeMessage([]byte(`{"channel": "someFutureChannel", "data": {}}`))
	require.Error(t, err)

	_, err = decodeMessage([]byte(`{"channel": "trades", "data": {"not": "an array"}}`))
	require.Error(t, err)
}

func TestSubscriptionKeys(t *testing.T) {
	assert.Equal(t, "trades:ETH", TradesSubscription{Coin: "ETH"}.Key())
	assert.Equal(t, "candle:BTC:1m", CandleSubscription{Coin: "BTC", Interval: "1m"}.Key())
	assert.Equal(t, "allMids", AllMidsSubscription{}.Key())
	assert.NotEqual(t, TradesSubscription{Coin: "ETH"}.Key(), TradesSubscription{Coin: "BTC"}.Key())
}
