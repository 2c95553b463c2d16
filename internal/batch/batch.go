// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"io"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/textconv/internal/convert"
	"github.com/pdiddy/textconv/pkg/types"
)

// Outcome pairs a request with its conversion result.
type Outcome struct {
	Request types.Request
	Result  types.Result
}

// Summary holds the counts of a batch run.
type Summary struct {
	Converted    int
	FallbackUsed int
	Failed       int
	Relocated    int
}

// Total returns the number of files converted or attempted.
func (s Summary) Total() int {
	return s.Converted + s.Failed
}

// HasFailures reports whether any file failed conversion.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run converts the requests concurrently on a worker pool and returns
// one outcome per completed file. Conversions are independent: a failed
// file never aborts the batch. Completion order is not guaranteed.
// Cancelling ctx abandons conversions that have not started; in-flight
// files still run to completion and are included in the outcomes.
// Progress is reported to progress as results arrive.
func Run(ctx context.Context, conv *convert.Converter, requests []types.Request, workers int, progress io.Writer, log zerolog.Logger) ([]Outcome, Summary) {
	if len(requests) == 0 {
		log.Warn().Msg("no files found for conversion")
		return nil, Summary{}
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(requests) {
		workers = len(requests)
	}

	log.Info().
		Int("files", len(requests)).
		Int("workers", workers).
		Msg("starting batch conversion")

	jobs := make(chan types.Request)
	results := make(chan Outcome, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range jobs {
				results <- Outcome{Request: req, Result: conv.Convert(req)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, req := range requests {
			if ctx.Err() != nil {
				log.Warn().Err(ctx.Err()).Msg("abandoning remaining conversions")
				return
			}
			select {
			case <-ctx.Done():
				log.Warn().Err(ctx.Err()).Msg("abandoning remaining conversions")
				return
			case jobs <- req:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	bar := progressbar.NewOptions(len(requests),
		progressbar.OptionSetDescription("Converting files"),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var outcomes []Outcome
	var summary Summary
	for outcome := range results {
		bar.Add(1)
		outcomes = append(outcomes, outcome)
		switch {
		case outcome.Result.Failed():
			summary.Failed++
		default:
			summary.Converted++
			if outcome.Result.Encoding == types.EncodingLatin1 {
				summary.FallbackUsed++
			}
		}
	}
	bar.Finish()

	log.Info().
		Int("converted", summary.Converted).
		Int("fallback", summary.FallbackUsed).
		Int("failed", summary.Failed).
		Msg("batch conversion completed")
	return outcomes, summary
}
