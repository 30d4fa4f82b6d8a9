package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bozoyan/asrtools/internal/logging"
)

// completer sends one prompt to a model and returns its text reply.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// BatchTranslator splits items into batches of Options.BatchSize. Each batch
// becomes one request, and up to Options.Concurrency workers pull batches
// from a shared queue. The first failing batch cancels the rest.
type BatchTranslator struct {
	completer completer
	options   Options
	logger    *logging.Logger
}

func newBatchTranslator(c completer, opts Options) *BatchTranslator {
	return &BatchTranslator{
		completer: c,
		options:   opts,
		logger:    logging.OrNop(opts.Logger),
	}
}

type batchResult struct {
	Index   int
	Results []TranslationResult
	Error   error
}

func (t *BatchTranslator) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}

	batches := splitBatches(items, t.options.batchSize())
	if len(batches) == 1 {
		return t.translateBatch(ctx, 0, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < t.options.concurrency() && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case batchIdx, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					results, err := t.translateBatch(ctx, batchIdx, batches[batchIdx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{
						Index:   batchIdx,
						Results: results,
						Error:   err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var (
		allResults []TranslationResult
		firstErr   error
	)
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", result.Index, result.Error)
				cancel()
			}
			continue
		}
		allResults = append(allResults, result.Results...)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(allResults) < len(items) {
		return nil, err
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})
	return allResults, nil
}

func (t *BatchTranslator) translateBatch(
	ctx context.Context,
	batchIdx int,
	items []TranslationItem,
) ([]TranslationResult, error) {
	t.logger.Debugw("Translating batch",
		"batch", batchIdx,
		"items", len(items),
	)

	text, err := t.completer.complete(ctx, BuildPrompt(t.options, items))
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	results, err := parseResults(text, items)
	if err != nil {
		return nil, err
	}

	t.logger.Debugw("Batch translated",
		"batch", batchIdx,
		"results", len(results),
	)
	return results, nil
}

func splitBatches(items []TranslationItem, size int) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}
