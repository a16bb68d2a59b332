package chainwatch

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// marketClosedTopic is the topic hash of the MarketClosed(uint256) event.
//
//nolint:gochecknoglobals // Precomputed event signature
var marketClosedTopic = crypto.Keccak256Hash([]byte("MarketClosed(uint256)"))

// ChainBackend is the subset of the Ethereum RPC client the watcher needs.
type ChainBackend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethtypes.Log, error)
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- ethtypes.Log) (ethereum.Subscription, error)
}

// Watcher discovers market-closed events via bounded historical backfill and
// a live, restartable subscription. It never mutates chain state; its only
// side effect is emitting MarketRefs. Duplicate delivery across backfill and
// subscription is tolerated because the submitter is idempotent.
type Watcher struct {
	client    ChainBackend
	contract  common.Address
	chunkSize uint64
	retry     RetryConfig
	logger    *zap.Logger
	events    chan types.MarketRef

	producers sync.WaitGroup
	closeOnce sync.Once
}

// Config holds watcher configuration.
type Config struct {
	Client     ChainBackend
	Contract   common.Address
	ChunkSize  uint64 // max blocks per log query
	Retry      RetryConfig
	BufferSize int
	Logger     *zap.Logger
}

// New creates a new chain event watcher.
func New(cfg *Config) *Watcher {
	bufferSize := cfg.BufferSize
	if bufferSize == 0 {
		bufferSize = 256
	}

	return &Watcher{
		client:    cfg.Client,
		contract:  cfg.Contract,
		chunkSize: cfg.ChunkSize,
		retry:     cfg.Retry,
		logger:    cfg.Logger,
		events:    make(chan types.MarketRef, bufferSize),
	}
}

// Events returns the channel on which discovered markets are emitted.
func (w *Watcher) Events() <-chan types.MarketRef {
	return w.events
}

// Close closes the events channel. Run and Backfill may still be winding
// down when it is called; Close waits for both before closing, so an emit
// never races a closed channel. Call it once, after cancelling their
// contexts.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		w.producers.Wait()
		close(w.events)
	})
}

// Run maintains a live subscription to MarketClosed logs until the context
// is cancelled. On transport failure it re-establishes the subscription with
// backoff; re-delivery of events across reconnects is acceptable.
func (w *Watcher) Run(ctx context.Context) error {
	w.producers.Add(1)
	defer w.producers.Done()

	backoff := newBackoff(w.retry)

	for {
		err := w.subscribeOnce(ctx, backoff)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("watcher-stopping")
				return ctx.Err()
			}

			ResubscribesTotal.Inc()
			w.logger.Warn("subscription-lost", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			w.logger.Info("watcher-stopping")
			return ctx.Err()
		case <-time.After(backoff.Next()):
		}
	}
}

// subscribeOnce establishes one subscription and pumps its logs until the
// transport fails or the context ends.
func (w *Watcher) subscribeOnce(ctx context.Context, backoff *expBackoff) error {
	logs := make(chan ethtypes.Log, 64)

	sub, err := w.client.SubscribeFilterLogs(ctx, w.filterQuery(nil, nil), logs)
	if err != nil {
		return fmt.Errorf("subscribe filter logs: %w", err)
	}
	defer sub.Unsubscribe()

	w.logger.Info("subscription-established", zap.String("contract", w.contract.Hex()))
	backoff.Reset()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case lg := <-logs:
			w.emit(ctx, lg)
		}
	}
}

// emit decodes a MarketClosed log and forwards the market ref. The question
// is not in the event; the submitter reads it from the contract record.
func (w *Watcher) emit(ctx context.Context, lg ethtypes.Log) {
	id, ok := marketIDFromLog(lg)
	if !ok {
		w.logger.Warn("event-log-malformed",
			zap.String("tx-hash", lg.TxHash.Hex()),
			zap.Uint64("block", lg.BlockNumber))
		return
	}

	ref := types.MarketRef{ID: id}

	select {
	case w.events <- ref:
		EventsEmittedTotal.Inc()
		w.logger.Info("market-closed-event",
			zap.Uint64("market-id", id),
			zap.Uint64("block", lg.BlockNumber),
			zap.String("tx-hash", lg.TxHash.Hex()))
	case <-ctx.Done():
	}
}

func (w *Watcher) filterQuery(from, to *big.Int) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		FromBlock: from,
		ToBlock:   to,
		Addresses: []common.Address{w.contract},
		Topics:    [][]common.Hash{{marketClosedTopic}},
	}
}

// marketIDFromLog extracts the market id from an event log. The id is the
// first indexed topic when indexed, otherwise the first data word.
func marketIDFromLog(lg ethtypes.Log) (uint64, bool) {
	if len(lg.Topics) > 1 {
		return new(big.Int).SetBytes(lg.Topics[1].Bytes()).Uint64(), true
	}
	if len(lg.Data) >= 32 {
		return new(big.Int).SetBytes(lg.Data[:32]).Uint64(), true
	}
	return 0, false
}
