// SPDX-License-Identifier: MIT
//
// The BUILD-phase claim loop is safe to run from multiple goroutines
// unmodified because rmfTable.nextListAtomic hands out disjoint radix
// lists: no two workers ever touch the same list.

package flzma2

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// runBuildPhase runs Phase B of the radix match finder over block using up
// to threads concurrent workers, each claiming disjoint radix lists via
// rt.nextListAtomic until the stack is exhausted. It bounds the whole pass
// to lzma2Timeout seconds; on timeout every worker's next claim attempt
// sees the cancellation sentinel and returns promptly (rt.cancelBuild).
func runBuildPhase(rt *rmfTable, threads int, block dataBlock) error {
	tctx, cancel := context.WithTimeout(context.Background(), lzma2Timeout*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(tctx)
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			builder := acquireRMFBuilder(block.end - block.start)
			defer releaseRMFBuilder(builder)
			buildTable(rt, builder, block)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return newError(KindTimedOut, err)
		}
		return nil
	case <-tctx.Done():
		rt.cancelBuild()
		<-done
		return newError(KindTimedOut, tctx.Err())
	}
}
