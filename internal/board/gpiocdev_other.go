//go:build !linux

package board

import (
	"log/slog"

	"github.com/pkg/errors"
)

// OpenGPIOCdev always fails: the GPIO character device only exists on Linux.
func OpenGPIOCdev(cfg GPIOCdevConfig, logger *slog.Logger) (Board, error) {
	return nil, errors.New("the gpiocdev board is only available on Linux")
}
