package submitter

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// predictionMarketABI is the minimal contract surface the submitter needs:
// the market record getter and the oracle proposal entrypoint.
const predictionMarketABI = `[
	{
		"name": "markets",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "marketId", "type": "uint256"}],
		"outputs": [
			{"name": "question", "type": "string"},
			{"name": "endTime", "type": "uint256"},
			{"name": "status", "type": "uint8"},
			{"name": "yesPool", "type": "uint256"},
			{"name": "noPool", "type": "uint256"}
		]
	},
	{
		"name": "proposeAIOutcome",
		"type": "function",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "marketId", "type": "uint256"},
			{"name": "answer", "type": "bool"},
			{"name": "evidenceURI", "type": "string"}
		],
		"outputs": []
	}
]`

const (
	defaultProposeGasLimit = uint64(300000)
	receiptPollInterval    = 2 * time.Second
)

// Contract abstracts the prediction market contract for the submitter.
type Contract interface {
	// Market reads the on-chain market record.
	Market(ctx context.Context, id uint64) (*types.MarketRecord, error)

	// ProposeOutcome submits the oracle verdict and waits for the receipt.
	ProposeOutcome(ctx context.Context, id uint64, answer bool, evidenceURI string) (*ethtypes.Receipt, error)
}

// TxBackend is the subset of the Ethereum RPC client the contract client
// needs for reads and transaction submission.
type TxBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// contractClient is the live Contract implementation backed by an RPC client
// and the oracle signing key.
type contractClient struct {
	backend  TxBackend
	address  common.Address
	abi      abi.ABI
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	waitTime time.Duration
	logger   *zap.Logger
}

// ContractConfig holds contract client configuration.
type ContractConfig struct {
	Backend    TxBackend
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
	ChainID    uint64
	WaitTime   time.Duration // max time to wait for a receipt
	Logger     *zap.Logger
}

// NewContract creates a contract client bound to the oracle signing key.
func NewContract(cfg *ContractConfig) (Contract, error) {
	parsedABI, err := abi.JSON(strings.NewReader(predictionMarketABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}

	waitTime := cfg.WaitTime
	if waitTime == 0 {
		waitTime = 2 * time.Minute
	}

	return &contractClient{
		backend:  cfg.Backend,
		address:  cfg.Address,
		abi:      parsedABI,
		key:      cfg.PrivateKey,
		from:     crypto.PubkeyToAddress(cfg.PrivateKey.PublicKey),
		chainID:  new(big.Int).SetUint64(cfg.ChainID),
		waitTime: waitTime,
		logger:   cfg.Logger,
	}, nil
}

// Market reads the market record via eth_call.
func (c *contractClient) Market(ctx context.Context, id uint64) (*types.MarketRecord, error) {
	data, err := c.abi.Pack("markets", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, fmt.Errorf("pack markets call: %w", err)
	}

	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("call markets: %w", err)
	}

	values, err := c.abi.Unpack("markets", out)
	if err != nil {
		return nil, fmt.Errorf("unpack markets result: %w", err)
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unpack markets result: got %d values, want 5", len(values))
	}

	question, ok := values[0].(string)
	if !ok {
		return nil, fmt.Errorf("unpack markets result: question is %T", values[0])
	}
	endTime, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack markets result: endTime is %T", values[1])
	}
	status, ok := values[2].(uint8)
	if !ok {
		return nil, fmt.Errorf("unpack markets result: status is %T", values[2])
	}
	yesPool, ok := values[3].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack markets result: yesPool is %T", values[3])
	}
	noPool, ok := values[4].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack markets result: noPool is %T", values[4])
	}

	return &types.MarketRecord{
		ID:       id,
		Question: question,
		EndTime:  time.Unix(int64(endTime.Uint64()), 0).UTC(),
		Status:   types.MarketStatus(status),
		YesPool:  yesPool,
		NoPool:   noPool,
	}, nil
}

// ProposeOutcome signs and sends the proposal transaction, then waits for it
// to mine. A reverted receipt is returned alongside the error so callers can
// record the tx hash.
func (c *contractClient) ProposeOutcome(ctx context.Context, id uint64, answer bool, evidenceURI string) (*ethtypes.Receipt, error) {
	data, err := c.abi.Pack("proposeAIOutcome", new(big.Int).SetUint64(id), answer, evidenceURI)
	if err != nil {
		return nil, fmt.Errorf("pack proposal call: %w", err)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch gas price: %w", err)
	}

	gasLimit, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.address,
		Data: data,
	})
	if err != nil {
		c.logger.Warn("gas-estimation-failed",
			zap.Uint64("market-id", id),
			zap.Error(err))
		gasLimit = defaultProposeGasLimit
	}

	tx := ethtypes.NewTransaction(nonce, c.address, big.NewInt(0), gasLimit, gasPrice, data)

	signedTx, err := ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	err = c.backend.SendTransaction(ctx, signedTx)
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	c.logger.Info("proposal-transaction-sent",
		zap.Uint64("market-id", id),
		zap.Bool("answer", answer),
		zap.String("tx-hash", signedTx.Hash().Hex()))

	return c.waitMined(ctx, signedTx.Hash())
}

// waitMined polls for the transaction receipt until it lands or the wait
// budget expires.
func (c *contractClient) waitMined(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.waitTime)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(waitCtx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("wait for receipt %s: %w", txHash.Hex(), waitCtx.Err())
		case <-ticker.C:
		}
	}
}
