package scanner

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

// LogSource is the slice of a chain client the scanner needs.
type LogSource interface {
	FilterTransferLogs(ctx context.Context, fromBlock, toBlock uint64) ([]chain.TransferEvent, error)
}

// degradedChunkSizes is the fixed ladder the chunk size falls through when a
// provider rejects a range. The first rung is the configured default.
var degradedChunkSizes = []uint64{100, 50, 25, 16}

const backoffBase = time.Second

// Scanner walks [fromBlock, head] in contiguous chunks, shrinking the chunk
// size and backing off whenever the provider reports a retryable condition.
// A chunk is never skipped: a failed range is retried at the same fromBlock
// until it succeeds or the ladder is exhausted.
type Scanner struct {
	defaultChunkSize uint64
	logger           *logger.Logger

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

func New(defaultChunkSize uint64, logger *logger.Logger) *Scanner {
	return &Scanner{
		defaultChunkSize: defaultChunkSize,
		logger:           logger,
		sleep:            time.Sleep,
	}
}

// ladder returns the chunk sizes to try in order, deduplicating rungs the
// default already covers.
func (s *Scanner) ladder() []uint64 {
	sizes := []uint64{s.defaultChunkSize}
	for _, size := range degradedChunkSizes {
		if size < s.defaultChunkSize {
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// Result is what one scan pass produced. LastScanned is the highest block
// fully covered; on error it reflects the last successful chunk, so the
// caller can advance its cursor exactly that far and no further.
type Result struct {
	Events      []chain.TransferEvent
	LastScanned uint64
}

// Scan fetches transfer events in [fromBlock, head], keeping only events whose
// destination is in addressSet (keys are lowercase addresses). Block 0 has no
// transfers on any supported chain, so a zero fromBlock is lifted to 1 to keep
// LastScanned from wrapping around.
func (s *Scanner) Scan(ctx context.Context, source LogSource, fromBlock, head uint64, addressSet map[string]bool) (*Result, error) {
	if fromBlock == 0 {
		fromBlock = 1
	}
	result := &Result{LastScanned: fromBlock - 1}
	if fromBlock > head {
		return result, nil
	}

	sizes := s.ladder()
	step := 0

	current := fromBlock
	for current <= head {
		chunkSize := sizes[step]
		to := current + chunkSize - 1
		if to > head {
			to = head
		}

		events, err := source.FilterTransferLogs(ctx, current, to)
		if err != nil {
			if !IsRetryable(err) {
				return result, errors.Wrapf(err, "scan aborted at block %d", current)
			}
			if step == len(sizes)-1 {
				return result, errors.Wrapf(err, "chunk ladder exhausted at block %d", current)
			}

			step++
			backoff := backoffBase << step
			s.logger.Info("provider rejected range, degrading chunk size", map[string]string{
				"fromBlock": formatUint(current),
				"toBlock":   formatUint(to),
				"nextChunk": formatUint(sizes[step]),
				"backoff":   backoff.String(),
				"error":     err.Error(),
			})
			s.sleep(backoff)
			continue // same fromBlock, smaller chunk
		}

		for _, event := range events {
			if addressSet[strings.ToLower(event.ToAddress)] {
				result.Events = append(result.Events, event)
			}
		}
		result.LastScanned = to
		current = to + 1
		// constraint was transient: next chunk goes back to the default
		step = 0
	}

	return result, nil
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
