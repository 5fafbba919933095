package hyperliquid

import "fmt"

// spotAssetIndexOffset shifts spot pair indices into their own range of
// the asset id space shared with perps.
const spotAssetIndexOffset = 10000

// AssetRegistry resolves coin names to wire asset ids and size
// decimals. It is built once from the perp and spot universes and never
// mutated, so concurrent reads need no locking.
type AssetRegistry struct {
	coinToAsset    map[string]int
	assetToDecimal map[int]int
	coinToSymbol   map[string]string
}

// NewAssetRegistry indexes the perp universe by position and the spot
// universe by offset index. Spot pairs are reachable under two names:
// the constructed "BASE/QUOTE" pair name and the universe entry's own
// name. Pairs referencing unknown token indices are skipped.
func NewAssetRegistry(meta *Meta, spotMeta *SpotMeta) *AssetRegistry {
	r := &AssetRegistry{
		coinToAsset:    make(map[string]int),
		assetToDecimal: make(map[int]int),
		coinToSymbol:   make(map[string]string),
	}

	if meta != nil {
		for i, asset := range meta.Universe {
			r.coinToAsset[asset.Name] = i
			r.assetToDecimal[i] = asset.SzDecimals
			r.coinToSymbol[asset.Name] = asset.Name
		}
	}

	if spotMeta != nil {
		tokens := make(map[int]SpotTokenInfo, len(spotMeta.Tokens))
		for _, token := range spotMeta.Tokens {
			tokens[token.Index] = token
		}

		for _, pair := range spotMeta.Universe {
			if len(pair.Tokens) != 2 {
				continue
			}
			base, okBase := tokens[pair.Tokens[0]]
			quote, okQuote := tokens[pair.Tokens[1]]
			if !okBase || !okQuote {
				continue
			}

			asset := pair.Index + spotAssetIndexOffset
			pairName := fmt.Sprintf("%s/%s", base.Name, quote.Name)

			r.coinToAsset[pairName] = asset
			r.coinToAsset[pair.Name] = asset
			r.assetToDecimal[asset] = base.SzDecimals
			r.coinToSymbol[pairName] = pair.Name
			r.coinToSymbol[pair.Name] = pair.Name
		}
	}

	return r
}

// Asset resolves a coin name to its wire asset id.
func (r *AssetRegistry) Asset(coin string) (int, error) {
	asset, ok := r.coinToAsset[coin]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrAssetNotFound, coin)
	}
	return asset, nil
}

// SzDecimals returns the size decimal budget for an asset id.
func (r *AssetRegistry) SzDecimals(asset int) (int, bool) {
	d, ok := r.assetToDecimal[asset]
	return d, ok
}

// Symbol maps a resolvable coin name back to the venue's symbol for it,
// e.g. "PURR" to the canonical "PURR/USDC" spot pair name.
func (r *AssetRegistry) Symbol(coin string) (string, bool) {
	s, ok := r.coinToSymbol[coin]
	return s, ok
}

// IsSpot reports whether an asset id sits in the spot range.
func (r *AssetRegistry) IsSpot(asset int) bool {
	return asset >= spotAssetIndexOffset
}

// SlippagePrice derives an aggressive limit price from a reference
// price and a tolerance, rounded to 5 significant figures and the
// asset's decimal budget (6 for perps, 8 for spot, less size decimals).
func (r *AssetRegistry) SlippagePrice(asset int, isBuy bool, slippage, px float64) (float64, error) {
	szDecimals, ok := r.SzDecimals(asset)
	if !ok {
		return 0, fmt.Errorf("%w: asset %d", ErrAssetNotFound, asset)
	}

	if isBuy {
		px *= 1 + slippage
	} else {
		px *= 1 - slippage
	}

	maxDecimals := 6
	if r.IsSpot(asset) {
		maxDecimals = 8
	}

	return roundToSignificantAndDecimal(px, maxDecimals-szDecimals), nil
}
