package hyperliquid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *AssetRegistry {
	t.Helper()

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
			// References a token index the token list does not carry.
			{Name: "GHOST/USDC", Tokens: []int{7, 0}, Index: 1},
		},
	}

	return NewAssetRegistry(meta, spotMeta)
}

func TestAssetRegistryPerps(t *testing.T) {
	r := testRegistry(t)

	asset, err := r.Asset("ETH")
	require.NoError(t, err)
	assert.Equal(t, 1, asset)

	d, ok := r.SzDecimals(asset)
	require.True(t, ok)
	assert.Equal(t, 4, d)
	assert.False(t, r.IsSpot(asset))
}

func TestAssetRegistrySpot(t *testing.T) {
	r := testRegistry(t)

	for _, coin := range []string{"PURR/USDC"} {
		asset, err := r.Asset(coin)
		require.NoError(t, err)
		assert.Equal(t, spotAssetIndexOffset, asset, "coin %s", coin)
		assert.True(t, r.IsSpot(asset))

		d, ok := r.SzDecimals(asset)
		require.True(t, ok)
		assert.Equal(t, 0, d, "size decimals come from the base token")
	}

	// The venue's own pair name resolves to the same asset.
	sym, ok := r.Symbol("PURR/USDC")
	require.True(t, ok)
	assert.Equal(t, "PURR/USDC", sym)
}

func TestAssetRegistrySkipsUnresolvablePair(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Asset("GHOST/USDC")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssetNotFound))
}

func TestAssetRegistryUnknownCoin(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Asset("DOGE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssetNotFound))
}

func TestSlippagePrice(t *testing.T) {
	r := testRegistry(t)

	// ETH perp: 6 - 4 szDecimals = 2 decimals.
	eth, err := r.Asset("ETH")
	require.NoError(t, err)

	buy, err := r.SlippagePrice(eth, true, 0.05, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 2100.0, buy, 1e-9)

	sell, err := r.SlippagePrice(eth, false, 0.05, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 1900.0, sell, 1e-9)

	// Spot pair: 8 - 0 szDecimals, but 5 significant figures dominate.
	purr, err := r.Asset("PURR/USDC")
	require.NoError(t, err)

	spotBuy, err := r.SlippagePrice(purr, true, 0.05, 0.123456)
	require.NoError(t, err)
	assert.InDelta(t, 0.12963, spotBuy, 1e-9)

	_, err = r.SlippagePrice(99999, true, 0.05, 1)
	assert.True(t, errors.Is(err, ErrAssetNotFound))
}
