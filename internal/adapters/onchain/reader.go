package onchain

// reader.go — Read-only Polygon RPC queries used by the balance aggregator.
//
// All amounts come back already scaled to human units: 6 decimals for the
// stablecoins, 18 for the POL gas token.

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

const (
	stablecoinDecimals = 6
	gasTokenDecimals   = 18
)

var erc20ABI abi.ABI

func init() {
	var err error
	erc20ABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "balanceOf",
			"type": "function",
			"inputs": [{"name": "account", "type": "address"}],
			"outputs": [{"name": "", "type": "uint256"}]
		},
		{
			"name": "allowance",
			"type": "function",
			"inputs": [
				{"name": "owner", "type": "address"},
				{"name": "spender", "type": "address"}
			],
			"outputs": [{"name": "", "type": "uint256"}]
		},
		{
			"name": "approve",
			"type": "function",
			"inputs": [
				{"name": "spender", "type": "address"},
				{"name": "amount", "type": "uint256"}
			],
			"outputs": [{"name": "", "type": "bool"}]
		}
	]`))
	if err != nil {
		panic("erc20 abi parse: " + err.Error())
	}
}

// Reader implements ports.ChainReader against a Polygon JSON-RPC endpoint.
type Reader struct {
	client *ethclient.Client
}

// NewReader dials the RPC endpoint.
func NewReader(rpcURL string) (*Reader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("onchain: dial rpc %s: %w", rpcURL, err)
	}
	return &Reader{client: client}, nil
}

// ERC20Balance returns balanceOf(holder) on the token contract, scaled to
// 6 decimals.
func (r *Reader) ERC20Balance(ctx context.Context, token, holder string) (decimal.Decimal, error) {
	callData, err := erc20ABI.Pack("balanceOf", common.HexToAddress(holder))
	if err != nil {
		return decimal.Zero, fmt.Errorf("onchain: pack balanceOf: %w", err)
	}

	raw, err := r.callUint256(ctx, common.HexToAddress(token), callData, "balanceOf")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(raw, -stablecoinDecimals), nil
}

// ERC20Allowance returns allowance(owner, spender) on the token contract,
// scaled to 6 decimals.
func (r *Reader) ERC20Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error) {
	callData, err := erc20ABI.Pack("allowance", common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return decimal.Zero, fmt.Errorf("onchain: pack allowance: %w", err)
	}

	raw, err := r.callUint256(ctx, common.HexToAddress(token), callData, "allowance")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(raw, -stablecoinDecimals), nil
}

// NativeBalance returns the POL balance of the address, scaled to 18 decimals.
func (r *Reader) NativeBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	raw, err := r.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("onchain: balance at: %w", err)
	}
	return decimal.NewFromBigInt(raw, -gasTokenDecimals), nil
}

// callUint256 runs an eth_call and unpacks a single uint256 return value.
func (r *Reader) callUint256(ctx context.Context, to common.Address, callData []byte, method string) (*big.Int, error) {
	callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.client.CallContract(callCtx, ethereum.CallMsg{
		To:   &to,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("onchain: call %s: %w", method, err)
	}

	vals, err := erc20ABI.Unpack(method, result)
	if err != nil || len(vals) == 0 {
		return nil, fmt.Errorf("onchain: unpack %s: %w", method, err)
	}
	return vals[0].(*big.Int), nil
}
