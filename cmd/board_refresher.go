package main

import (
	"context"
	"time"

	"github.com/krishyadav90/ProJobHub-IND/internal/board"
)

const boardRefreshTimeout = 30 * time.Second

// startBoardRefresher loads the shared listings once and then keeps them fresh,
// so postings made through other instances show up without a restart.
func startBoardRefresher(ctx context.Context, b *board.Board, interval time.Duration, logger board.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, boardRefreshTimeout)
			b.Refresh(runCtx)
			cancel()
		}

		runOnce()
		logger.Infof("board refresher: initial load done, %d listings", len(b.Snapshot()))

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
