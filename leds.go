package knightrider

import (
	"log/slog"

	"libdb.so/knightrider/internal/board"
	"libdb.so/knightrider/scanner"
)

// ledOutput feeds controller frames to a board. The controller cannot handle
// errors, so failed writes are logged and the next frame is tried as usual.
type ledOutput struct {
	board  board.Board
	logger *slog.Logger
}

var _ scanner.Output = (*ledOutput)(nil)

func (o *ledOutput) Show(f scanner.Frame) {
	if err := o.board.Show(f); err != nil {
		o.logger.Warn(
			"failed to show frame",
			"lit", f.Weight(),
			"error", err)
	}
}
