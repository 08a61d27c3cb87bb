package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/datastax/cassandra-source-connector/commitlog"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// ArchivePolicy moves successfully-processed segments into an archive
// directory (zstd-compressed when Compress is set, since raw commit-log
// segments are large and rarely need to be read again; moved verbatim
// otherwise) and moves failed segments into an error
// directory verbatim, so they can be inspected or recycled later.
type ArchivePolicy struct {
	ArchiveDir string
	ErrorDir   string
	Compress   bool
	Log        zerolog.Logger
}

func (p *ArchivePolicy) OnSuccess(segPath string) error {
	if !p.Compress {
		return commitlog.Move(segPath, p.ArchiveDir)
	}
	if err := compressInto(segPath, p.ArchiveDir); err != nil {
		return err
	}
	p.Log.Debug().Str("segment", filepath.Base(segPath)).Msg("archived segment")
	return nil
}

func (p *ArchivePolicy) OnError(segPath string) error {
	if err := commitlog.Move(segPath, p.ErrorDir); err != nil {
		return err
	}
	p.Log.Warn().Str("segment", filepath.Base(segPath)).Msg("moved segment to error directory")
	return nil
}

func compressInto(segPath, dstDir string) error {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("transfer: create archive dir %s: %w", dstDir, err)
	}

	in, err := os.Open(segPath)
	if err != nil {
		return fmt.Errorf("transfer: open %s: %w", segPath, err)
	}
	defer in.Close()

	dstPath := filepath.Join(dstDir, filepath.Base(segPath)+".zst")
	tmp := dstPath + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("transfer: create %s: %w", tmp, err)
	}

	enc, err := zstd.NewWriter(out)
	if err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("transfer: init zstd encoder: %w", err)
	}

	if _, err := io.Copy(enc, in); err != nil {
		enc.Close()
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("transfer: compress %s: %w", segPath, err)
	}
	if err := enc.Close(); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("transfer: flush zstd encoder: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("transfer: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dstPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("transfer: finalize %s: %w", dstPath, err)
	}
	return os.Remove(segPath)
}
