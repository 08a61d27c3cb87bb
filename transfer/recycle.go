package transfer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/datastax/cassandra-source-connector/commitlog"
	"github.com/rs/zerolog"
)

// RecycleErrorSegments moves every file out of errorDir back into
// workingDir, giving previously-failed segments another chance to be
// picked up by the next backlog scan. It is invoked once, at process
// startup, only when reprocessing is enabled in configuration.
func RecycleErrorSegments(errorDir, workingDir string, log zerolog.Logger) error {
	entries, err := os.ReadDir(errorDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("transfer: read error dir %s: %w", errorDir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		src := filepath.Join(errorDir, e.Name())
		if err := commitlog.Move(src, workingDir); err != nil {
			return fmt.Errorf("transfer: recycle %s: %w", src, err)
		}
		log.Info().Str("segment", e.Name()).Msg("recycled error segment for reprocessing")
	}
	return nil
}
