package onchain

// approve.go — ERC20 max-approval transactions. One-shot operator action
// that lets the exchange contract move the wallet's collateral.

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/rvilla87/polymirror/internal/domain"
)

const (
	polygonChainID   = int64(137)
	approvalGasLimit = uint64(80_000)
)

// maxUint256 = 2^256 - 1, the conventional "unlimited" allowance.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ApproveClient implements ports.Approver. Approvals are always signed by
// the EOA itself; proxy and safe wallets manage allowances through the
// Polymarket UI, not through this path.
type ApproveClient struct {
	client *ethclient.Client
	cred   domain.WalletCredential
}

// NewApproveClient dials the RPC endpoint with the signing credential.
func NewApproveClient(rpcURL string, cred domain.WalletCredential) (*ApproveClient, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("approve: dial rpc %s: %w", rpcURL, err)
	}
	return &ApproveClient{client: client, cred: cred}, nil
}

// ApproveMax signs and sends approve(spender, 2^256-1) on the token
// contract and waits for the receipt. Returns the transaction hash.
func (ac *ApproveClient) ApproveMax(ctx context.Context, token, spender string) (string, error) {
	callData, err := erc20ABI.Pack("approve", common.HexToAddress(spender), maxUint256)
	if err != nil {
		return "", fmt.Errorf("approve: pack: %w", err)
	}

	nonce, err := ac.client.PendingNonceAt(ctx, ac.cred.Address)
	if err != nil {
		return "", fmt.Errorf("approve: nonce: %w", err)
	}

	gasPrice, err := ac.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("approve: gas price: %w", err)
	}
	// Add 50% buffer for faster inclusion.
	gasPrice.Mul(gasPrice, big.NewInt(15))
	gasPrice.Div(gasPrice, big.NewInt(10))

	tx := types.NewTransaction(nonce, common.HexToAddress(token), big.NewInt(0), approvalGasLimit, gasPrice, callData)

	signed, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(polygonChainID)), ac.cred.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("approve: sign tx: %w", err)
	}

	if err := ac.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("approve: send tx: %w", err)
	}

	txHash := signed.Hash()
	slog.Info("approve: transaction sent", "token", token, "spender", spender, "tx", txHash.Hex())

	receiptCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	receipt, err := ac.waitForReceipt(receiptCtx, txHash)
	if err != nil {
		slog.Warn("approve: could not confirm receipt, tx may still succeed", "tx", txHash.Hex(), "err", err)
		return txHash.Hex(), nil
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return txHash.Hex(), fmt.Errorf("approve: tx reverted: %s", txHash.Hex())
	}

	slog.Info("approve: confirmed", "tx", txHash.Hex(), "gas_used", receipt.GasUsed)
	return txHash.Hex(), nil
}

// waitForReceipt polls for a transaction receipt until confirmed or timeout.
func (ac *ApproveClient) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			receipt, err := ac.client.TransactionReceipt(ctx, txHash)
			if err != nil {
				continue // not yet mined
			}
			return receipt, nil
		}
	}
}
