package app

import (
	"io"

	"github.com/fbellman/swapdesk/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}
