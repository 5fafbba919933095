package hyperliquid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeResponseOk(t *testing.T) {
	raw := []byte(`{
		"status": "ok",
		"response": {
			"type": "order",
			"data": {
				"statuses": [
					{"resting": {"oid": 77738308}}
				]
			}
		}
	}`)

	var resp ExchangeResponse[OrderResponse]
	require.NoError(t, json.Unmarshal(raw, &resp))

	assert.True(t, resp.Ok)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "order", resp.Type)
	require.Len(t, resp.Data.Statuses, 1)
	require.NotNil(t, resp.Data.Statuses[0].Resting)
	assert.Equal(t, int64(77738308), resp.Data.Statuses[0].Resting.Oid)
	assert.NoError(t, resp.FirstError())
}

func TestExchangeResponseErr(t *testing.T) {
	raw := []byte(`{"status": "err", "response": "Order must have minimum value of $10"}`)

	var resp ExchangeResponse[OrderResponse]
	require.NoError(t, json.Unmarshal(raw, &resp))

	assert.False(t, resp.Ok)
	assert.Equal(t, "Order must have minimum value of $10", resp.Err)
	require.Error(t, resp.FirstError())
	assert.EqualError(t, resp.FirstError(), "Order must have minimum value of $10")
}

func TestExchangeResponseNoData(t *testing.T) {
	// Acknowledgement-only actions carry no data payload.
	raw := []byte(`{"status": "ok", "response": {"type": "default"}}`)

	var resp ExchangeResponse[StatusResponse]
	require.NoError(t, json.Unmarshal(raw, &resp))

	assert.True(t, resp.Ok)
	assert.Equal(t, "default", resp.Type)
	assert.Empty(t, resp.Data.Statuses)
}

func TestMixedArrayFirstError(t *testing.T) {
	var statuses MixedArray
	require.NoError(t, json.Unmarshal([]byte(`["success", "success"]`), &statuses))
	assert.NoError(t, statuses.FirstError())

	require.NoError(t, json.Unmarshal([]byte(`["success", {"error": "Insufficient margin"}]`), &statuses))
	require.Error(t, statuses.FirstError())
	assert.EqualError(t, statuses.FirstError(), "Insufficient margin")

	require.NoError(t, json.Unmarshal([]byte(`[{"resting": {"oid": 1}}]`), &statuses))
	assert.NoError(t, statuses.FirstError())

	require.NoError(t, json.Unmarshal([]byte(`["Order would immediately match"]`), &statuses))
	assert.EqualError(t, statuses.FirstError(), "Order would immediately match")

	// Trigger and market acks are not failures.
	require.NoError(t, json.Unmarshal([]byte(`["waitingForTrigger", "waitingForFill", "success"]`), &statuses))
	assert.NoError(t, statuses.FirstError())
}

func TestTuple2RoundTrip(t *testing.T) {
	raw := []byte(`[{"universe": [{"name": "BTC", "szDecimals": 5}]}, [{"funding": "0.0000125"}]]`)

	var tup Tuple2[Meta, []map[string]any]
	require.NoError(t, json.Unmarshal(raw, &tup))
	require.Len(t, tup.First.Universe, 1)
	assert.Equal(t, "BTC", tup.First.Universe[0].Name)
	assert.Equal(t, 5, tup.First.Universe[0].SzDecimals)
	require.Len(t, tup.Second, 1)
	assert.Equal(t, "0.0000125", tup.Second[0]["funding"])

	simple := Tuple2[string, int]{First: "mark", Second: 42}
	out, err := json.Marshal(simple)
	require.NoError(t, err)
	assert.JSONEq(t, `["mark", 42]`, string(out))
}

func TestTuple2RejectsWrongArity(t *testing.T) {
	var tup Tuple2[int, int]
	require.Error(t, json.Unmarshal([]byte(`[1, 2, 3]`), &tup))
	require.Error(t, json.Unmarshal([]byte(`[1]`), &tup))
}

func TestOrderStatusUnmarshal(t *testing.T) {
	var st OrderStatus
	require.NoError(t, json.Unmarshal([]byte(`"success"`), &st))
	assert.Equal(t, "success", st.Status)
	assert.Empty(t, st.Error)

	require.NoError(t, json.Unmarshal([]byte(`"waitingForTrigger"`), &st))
	assert.Equal(t, "waitingForTrigger", st.Status)
	assert.Empty(t, st.Error)

	require.NoError(t, json.Unmarshal([]byte(`"waitingForFill"`), &st))
	assert.Equal(t, "waitingForFill", st.Status)
	assert.Empty(t, st.Error)

	require.NoError(t, json.Unmarshal([]byte(`"Order has invalid size"`), &st))
	assert.Equal(t, "Order has invalid size", st.Error)
	assert.Empty(t, st.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"filled": {"totalSz": "0.02", "avgPx": "1891.4", "oid": 77747314}}`), &st))
	require.NotNil(t, st.Filled)
	assert.Equal(t, "0.02", st.Filled.TotalSz)
	assert.Equal(t, int64(77747314), st.Filled.Oid)

	require.NoError(t, json.Unmarshal([]byte(`{"error": "Insufficient margin"}`), &st))
	assert.Equal(t, "Insufficient margin", st.Error)
}
