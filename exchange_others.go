package hyperliquid

import (
	"context"
	"math"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// UpdateLeverage sets the leverage for a coin, cross or isolated.
func (e *Exchange) UpdateLeverage(ctx context.Context, coin string, isCross bool, leverage int) (*StatusResponse, error) {
	asset, err := e.info.Registry().Asset(coin)
	if err != nil {
		return nil, err
	}

	action := UpdateLeverageAction{
		Type:     "updateLeverage",
		Asset:    asset,
		IsCross:  isCross,
		Leverage: leverage,
	}

	return e.executeStatusAction(ctx, action)
}

// UpdateIsolatedMargin adds or removes margin (USD) on an isolated
// position.
func (e *Exchange) UpdateIsolatedMargin(ctx context.Context, coin string, amountUsd float64) (*StatusResponse, error) {
	asset, err := e.info.Registry().Asset(coin)
	if err != nil {
		return nil, err
	}

	action := UpdateIsolatedMarginAction{
		Type:  "updateIsolatedMargin",
		Asset: asset,
		IsBuy: true,
		Ntli:  int64(math.Round(amountUsd * 1e6)),
	}

	return e.executeStatusAction(ctx, action)
}

// SetReferrer registers a referral code for the account.
func (e *Exchange) SetReferrer(ctx context.Context, code string) (*StatusResponse, error) {
	action := SetReferrerAction{
		Type: "setReferrer",
		Code: code,
	}

	return e.executeStatusAction(ctx, action)
}

// CreateSubAccount creates a named sub-account under the master.
func (e *Exchange) CreateSubAccount(ctx context.Context, name string) (*StatusResponse, error) {
	action := CreateSubAccountAction{
		Type: "createSubAccount",
		Name: name,
	}

	return e.executeStatusAction(ctx, action)
}

// SubAccountTransfer moves USD between the master account and a
// sub-account. amountUsd is in whole USD.
func (e *Exchange) SubAccountTransfer(ctx context.Context, subAccountUser string, isDeposit bool, amountUsd float64) (*StatusResponse, error) {
	action := SubAccountTransferAction{
		Type:           "subAccountTransfer",
		SubAccountUser: subAccountUser,
		IsDeposit:      isDeposit,
		Usd:            int64(math.Round(amountUsd * 1e6)),
	}

	return e.executeStatusAction(ctx, action)
}

// VaultTransfer deposits to or withdraws from a vault. Requires the
// exchange to have been built with a vault address.
func (e *Exchange) VaultTransfer(ctx context.Context, isDeposit bool, amountUsd float64) (*StatusResponse, error) {
	if e.vault == "" {
		return nil, ErrVaultAddressNotFound
	}

	action := VaultTransferAction{
		Type:         "vaultTransfer",
		VaultAddress: e.vault,
		IsDeposit:    isDeposit,
		Usd:          int64(math.Round(amountUsd * 1e6)),
	}

	return e.executeStatusAction(ctx, action)
}

// ClassTransfer moves collateral between the spot and perp wallets
// through the L1-signed spotUser action.
func (e *Exchange) ClassTransfer(ctx context.Context, amountUsd float64, toPerp bool) (*StatusResponse, error) {
	action := SpotUserAction{
		Type: "spotUser",
		ClassTransfer: ClassTransferWire{
			Usdc:   int64(math.Round(amountUsd * 1e6)),
			ToPerp: toPerp,
		},
	}

	return e.executeStatusAction(ctx, action)
}

// Noop burns a nonce without any effect, invalidating actions already
// signed with lower nonces that are still in flight.
func (e *Exchange) Noop(ctx context.Context) (*StatusResponse, error) {
	return e.executeStatusAction(ctx, NoopAction{Type: "noop"})
}

// UsdTransfer sends USDC to another address. The amount is a decimal
// string like "12.5".
func (e *Exchange) UsdTransfer(ctx context.Context, destination, amount string) (*StatusResponse, error) {
	nonce := e.nonces.Next()
	action := map[string]any{
		"type":        "usdSend",
		"destination": destination,
		"amount":      amount,
		"time":        nonce,
	}

	return e.executeUserSignedStatusAction(ctx, action, usdSendSignTypes, "HyperliquidTransaction:UsdSend", nonce)
}

// SpotTransfer sends a spot token to another address. token is the
// venue's "NAME:tokenId" form.
func (e *Exchange) SpotTransfer(ctx context.Context, destination, token, amount string) (*StatusResponse, error) {
	nonce := e.nonces.Next()
	action := map[string]any{
		"type":        "spotSend",
		"destination": destination,
		"token":       token,
		"amount":      amount,
		"time":        nonce,
	}

	return e.executeUserSignedStatusAction(ctx, action, spotSendSignTypes, "HyperliquidTransaction:SpotSend", nonce)
}

// WithdrawFromBridge withdraws USDC to an L1 address through the
// bridge.
func (e *Exchange) WithdrawFromBridge(ctx context.Context, destination, amount string) (*StatusResponse, error) {
	nonce := e.nonces.Next()
	action := map[string]any{
		"type":        "withdraw3",
		"destination": destination,
		"amount":      amount,
		"time":        nonce,
	}

	return e.executeUserSignedStatusAction(ctx, action, withdrawSignTypes, "HyperliquidTransaction:Withdraw", nonce)
}

// UsdClassTransfer moves collateral between spot and perp wallets in
// the typed-data protocol. With a vault configured the amount string is
// suffixed with the sub-account the venue expects.
func (e *Exchange) UsdClassTransfer(ctx context.Context, amount string, toPerp bool) (*StatusResponse, error) {
	nonce := e.nonces.Next()

	if e.vault != "" {
		amount += " subaccount:" + e.vault
	}

	action := map[string]any{
		"type":   "usdClassTransfer",
		"amount": amount,
		"toPerp": toPerp,
		"nonce":  nonce,
	}

	return e.executeUserSignedStatusAction(ctx, action, usdClassTransferSignTypes, "HyperliquidTransaction:UsdClassTransfer", nonce)
}

// ApproveAgent authorizes an agent key to sign trade actions on behalf
// of the account. agentName may be empty for an unnamed agent.
func (e *Exchange) ApproveAgent(ctx context.Context, agentAddress, agentName string) (*StatusResponse, error) {
	nonce := e.nonces.Next()
	action := map[string]any{
		"type":         "approveAgent",
		"agentAddress": agentAddress,
		"agentName":    agentName,
		"nonce":        nonce,
	}

	return e.executeUserSignedStatusAction(ctx, action, approveAgentSignTypes, "HyperliquidTransaction:ApproveAgent", nonce)
}

// ApproveBuilderFee authorizes a builder address to collect up to
// maxFeeRate (a percent string like "0.001%") on the account's orders.
func (e *Exchange) ApproveBuilderFee(ctx context.Context, builder, maxFeeRate string) (*StatusResponse, error) {
	nonce := e.nonces.Next()
	action := map[string]any{
		"type":       "approveBuilderFee",
		"maxFeeRate": maxFeeRate,
		"builder":    builder,
		"nonce":      nonce,
	}

	return e.executeUserSignedStatusAction(ctx, action, approveBuilderFeeSignTypes, "HyperliquidTransaction:ApproveBuilderFee", nonce)
}

func (e *Exchange) executeUserSignedStatusAction(
	ctx context.Context,
	action map[string]any,
	payloadTypes []apitypes.Type,
	primaryType string,
	nonce int64,
) (*StatusResponse, error) {
	var resp ExchangeResponse[StatusResponse]
	if err := e.executeUserSignedAction(ctx, action, payloadTypes, primaryType, nonce, &resp); err != nil {
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
