package hyperliquid

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vmihailenco/msgpack/v5"
)

// signatureChainID is the EVM chain the user-signed payloads are bound
// to (Arbitrum Sepolia). The venue verifies against this chain id
// regardless of which network the action targets.
const signatureChainID = "0x66eee"

// Signature is an ECDSA signature split into the r/s/v components the
// exchange endpoint expects.
type Signature struct {
	R string `json:"r"`
	S string `json:"s"`
	V int    `json:"v"`
}

// actionHash computes the "connection id" for an L1 action: the msgpack
// encoding of the action followed by the nonce, the optional vault
// address and the optional expiry, hashed with keccak256. Struct field
// order is preserved by the encoder, so action structs define the wire
// order.
func actionHash(action any, vaultAddress string, nonce int64, expiresAfter *int64) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)

	if err := enc.Encode(action); err != nil {
		return nil, fmt.Errorf("failed to marshal action: %w", err)
	}
	data := buf.Bytes()

	if nonce < 0 {
		return nil, fmt.Errorf("nonce cannot be negative: %d", nonce)
	}
	nonceBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBytes, uint64(nonce))
	data = append(data, nonceBytes...)

	if vaultAddress == "" {
		data = append(data, 0x00)
	} else {
		data = append(data, 0x01)
		data = append(data, addressToBytes(vaultAddress)...)
	}

	if expiresAfter != nil {
		if *expiresAfter < 0 {
			return nil, fmt.Errorf("expiresAfter cannot be negative: %d", *expiresAfter)
		}
		data = append(data, 0x00)
		expiryBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(expiryBytes, uint64(*expiresAfter))
		data = append(data, expiryBytes...)
	}

	return crypto.Keccak256(data), nil
}

func addressToBytes(address string) []byte {
	address = strings.TrimPrefix(address, "0x")
	b, _ := hex.DecodeString(address)
	return b
}

// constructPhantomAgent wraps an action hash into the Agent struct that
// is actually signed. The source discriminates mainnet from testnet so
// a signature can never be replayed across networks.
func constructPhantomAgent(hash []byte, isMainnet bool) map[string]any {
	source := "b"
	if isMainnet {
		source = "a"
	}
	return map[string]any{
		"source":        source,
		"connection_id": hash,
	}
}

func l1Payload(phantomAgent map[string]any) apitypes.TypedData {
	chainID := math.HexOrDecimal256(*big.NewInt(1337))
	return apitypes.TypedData{
		Domain: apitypes.TypedDataDomain{
			ChainId:           &chainID,
			Name:              "Exchange",
			Version:           "1",
			VerifyingContract: "0x0000000000000000000000000000000000000000",
		},
		Types: apitypes.Types{
			"Agent": []apitypes.Type{
				{Name: "source", Type: "string"},
				{Name: "connection_id", Type: "bytes32"},
			},
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
		},
		PrimaryType: "Agent",
		Message:     phantomAgent,
	}
}

// signInner signs the EIP-712 digest 0x1901 || domainSeparator ||
// structHash and splits the recoverable signature into fixed-width
// r/s and v with the Ethereum offset of 27.
func signInner(privateKey *ecdsa.PrivateKey, typedData apitypes.TypedData) (Signature, error) {
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return Signature{}, fmt.Errorf("failed to hash domain: %w", err)
	}

	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to hash typed data: %w", err)
	}

	rawData := []byte{0x19, 0x01}
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, structHash...)
	msgHash := crypto.Keccak256Hash(rawData)

	sig, err := crypto.Sign(msgHash.Bytes(), privateKey)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to sign message: %w", err)
	}

	// r and s stay fixed-width 32-byte hex so the payload matches the
	// venue's examples byte for byte.
	return Signature{
		R: hexutil.Encode(sig[:32]),
		S: hexutil.Encode(sig[32:64]),
		V: int(sig[64]) + 27,
	}, nil
}

// SignL1Action signs a trade action through the phantom-agent protocol;
// the action bytes, nonce, vault address and expiry are all bound into
// the signed hash.
func SignL1Action(
	privateKey *ecdsa.PrivateKey,
	action any,
	vaultAddress string,
	nonce int64,
	expiresAfter *int64,
	isMainnet bool,
) (Signature, error) {
	hash, err := actionHash(action, vaultAddress, nonce, expiresAfter)
	if err != nil {
		return Signature{}, err
	}

	phantomAgent := constructPhantomAgent(hash, isMainnet)

	return signInner(privateKey, l1Payload(phantomAgent))
}

// Typed-data field lists for the user-signed actions. The venue
// publishes these as part of its signing scheme; order matters.
var (
	usdSendSignTypes = []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "destination", Type: "string"},
		{Name: "amount", Type: "string"},
		{Name: "time", Type: "uint64"},
	}

	spotSendSignTypes = []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "destination", Type: "string"},
		{Name: "token", Type: "string"},
		{Name: "amount", Type: "string"},
		{Name: "time", Type: "uint64"},
	}

	withdrawSignTypes = []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "destination", Type: "string"},
		{Name: "amount", Type: "string"},
		{Name: "time", Type: "uint64"},
	}

	usdClassTransferSignTypes = []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "amount", Type: "string"},
		{Name: "toPerp", Type: "bool"},
		{Name: "nonce", Type: "uint64"},
	}

	approveAgentSignTypes = []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "agentAddress", Type: "address"},
		{Name: "agentName", Type: "string"},
		{Name: "nonce", Type: "uint64"},
	}

	approveBuilderFeeSignTypes = []apitypes.Type{
		{Name: "hyperliquidChain", Type: "string"},
		{Name: "maxFeeRate", Type: "string"},
		{Name: "builder", Type: "address"},
		{Name: "nonce", Type: "uint64"},
	}
)

// SignUserSignedAction signs actions in the human-readable typed-data
// protocol: the action fields are signed directly under the
// HyperliquidSignTransaction domain instead of being hashed into a
// phantom agent. The action map is mutated to carry the chain binding
// fields (signatureChainId, hyperliquidChain) the venue checks during
// verification.
func SignUserSignedAction(
	privateKey *ecdsa.PrivateKey,
	action map[string]any,
	payloadTypes []apitypes.Type,
	primaryType string,
	isMainnet bool,
) (Signature, error) {
	action["signatureChainId"] = signatureChainID
	if isMainnet {
		action["hyperliquidChain"] = "Mainnet"
	} else {
		action["hyperliquidChain"] = "Testnet"
	}

	chainID := math.HexOrDecimal256(*big.NewInt(421614))

	message := make(map[string]any, len(payloadTypes))
	for _, field := range payloadTypes {
		v, ok := action[field.Name]
		if !ok {
			return Signature{}, fmt.Errorf("user-signed action missing field %q", field.Name)
		}
		// apitypes wants integer values as decimal strings or
		// HexOrDecimal256, not Go ints.
		switch n := v.(type) {
		case int64:
			message[field.Name] = math.NewHexOrDecimal256(n)
		case int:
			message[field.Name] = math.NewHexOrDecimal256(int64(n))
		default:
			message[field.Name] = v
		}
	}

	typedData := apitypes.TypedData{
		Domain: apitypes.TypedDataDomain{
			ChainId:           &chainID,
			Name:              "HyperliquidSignTransaction",
			Version:           "1",
			VerifyingContract: "0x0000000000000000000000000000000000000000",
		},
		Types: apitypes.Types{
			primaryType: payloadTypes,
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
		},
		PrimaryType: primaryType,
		Message:     message,
	}

	return signInner(privateKey, typedData)
}
