package transfer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/datastax/cassandra-source-connector/commitlog"
	"github.com/rs/zerolog"
)

// DeletePolicy removes successfully-processed segments outright instead of
// archiving them, and still quarantines failed segments for inspection.
type DeletePolicy struct {
	ErrorDir string
	Log      zerolog.Logger
}

func (p *DeletePolicy) OnSuccess(segPath string) error {
	if err := os.Remove(segPath); err != nil {
		return fmt.Errorf("transfer: remove %s: %w", segPath, err)
	}
	p.Log.Debug().Str("segment", filepath.Base(segPath)).Msg("deleted processed segment")
	return nil
}

func (p *DeletePolicy) OnError(segPath string) error {
	if err := commitlog.Move(segPath, p.ErrorDir); err != nil {
		return err
	}
	p.Log.Warn().Str("segment", filepath.Base(segPath)).Msg("moved segment to error directory")
	return nil
}
