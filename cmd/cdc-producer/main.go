package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datastax/cassandra-source-connector/adminserver"
	"github.com/datastax/cassandra-source-connector/busclient"
	"github.com/datastax/cassandra-source-connector/cdcerrors"
	"github.com/datastax/cassandra-source-connector/cfg"
	"github.com/datastax/cassandra-source-connector/delivery"
	"github.com/datastax/cassandra-source-connector/detector"
	"github.com/datastax/cassandra-source-connector/metadata"
	"github.com/datastax/cassandra-source-connector/mutation"
	"github.com/datastax/cassandra-source-connector/offset"
	"github.com/datastax/cassandra-source-connector/procctx"
	"github.com/datastax/cassandra-source-connector/publisher"
	"github.com/datastax/cassandra-source-connector/reader"
	"github.com/datastax/cassandra-source-connector/telemetry"
	"github.com/datastax/cassandra-source-connector/transfer"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	flag.Parse()

	if err := cfg.Load(*cfg.ConfigPathFlag); err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	var writer io.Writer = zerolog.NewConsoleWriter()
	if cfg.Config.Logging.Format == "json" {
		writer = os.Stdout
	}
	gLog := zerolog.New(writer).
		With().
		Timestamp().
		Str("cluster", cfg.Config.ClusterName).
		Logger()

	if cfg.Config.Logging.Verbose {
		log.Logger = gLog.Level(zerolog.DebugLevel)
	} else {
		log.Logger = gLog.Level(zerolog.InfoLevel)
	}

	log.Info().Msg("cassandra-source-connector starting")

	telemetry.InitializeTelemetry()
	telemetry.InitMetrics()

	procCtx, err := procctx.New(cfg.Config.ClusterName, cfg.Config.NodeUUID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to derive process identity")
	}
	log.Info().Str("node_uuid", procCtx.NodeUUID).Msg("process identity established")

	offsetStore, err := newOffsetStore()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open offset store")
	}
	defer offsetStore.Close()

	tableRegistry, err := buildTableRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build table registry")
	}

	busClient, err := newBusClient()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct bus client")
	}

	pub := publisher.New(publisher.Config{
		Client:      busClient,
		TopicPrefix: cfg.Config.Bus.TopicPrefix,
		Log:         log.Logger,
		OnSkippedMutation: telemetry.MutationsSkippedTotal.Inc,
	})
	defer pub.Close()

	xferPolicy, err := newTransferPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct transfer policy")
	}

	deliverySender := func(m mutation.Mutation) error {
		tbl, ok := tableRegistry[metadata.QualifiedName(m.Keyspace, m.Table)]
		if !ok {
			return fmt.Errorf("delivery: no table metadata for %s", metadata.QualifiedName(m.Keyspace, m.Table))
		}
		sent, err := pub.Publish(m, tbl)
		if err != nil {
			telemetry.BusSendErrorsTotal.With(cfg.Config.Bus.Driver).Inc()
			return err
		}
		if sent {
			telemetry.MutationsSentTotal.With(m.Keyspace, m.Table).Inc()
		}
		return nil
	}

	deliveryLoop := delivery.NewLoop(offsetStore, deliverySender, log.Logger, delivery.Metrics{
		SentMutations: func() {},
		SentErrors:    func() { telemetry.DeliveryErrorsTotal.Inc() },
	})

	stopCh := make(chan struct{})

	rdr := &reader.Reader{
		Dir:               cfg.Config.CommitLog.WorkingDir,
		Parser:            unconfiguredParser{},
		Offset:            offsetStore,
		Tables:            metadata.Lookup(tableRegistry),
		Deliver:           func(m mutation.Mutation) bool { return deliveryLoop.Deliver(m, stopCh) },
		Transfer:          xferPolicy,
		OnSkippedMutation: telemetry.MutationsSkippedTotal.Inc,
		Source: mutation.SourceInfo{
			ClusterName: procCtx.ClusterName,
			NodeUUID:    procCtx.NodeUUID,
		},
		Log: log.Logger,
	}

	det := detector.New(detector.Config{
		Dir:                    cfg.Config.CommitLog.WorkingDir,
		PollInterval:           time.Duration(cfg.Config.CommitLog.DirPollIntervalMS) * time.Millisecond,
		NearRealTimeCDC:        cfg.Config.CommitLog.NearRealTimeCDC,
		ReprocessErrorsOnStart: cfg.Config.CommitLog.ErrorReprocessOnStart,
		ErrorDir:               cfg.Config.CommitLog.ErrorDir,
		Process:                rdr.ProcessSegment,
		Offset:                 offsetStore,
		Log:                    log.Logger,
	})

	if err := det.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start commit log detector")
	}

	var admin *adminserver.Server
	if cfg.Config.Admin.Enabled {
		admin = adminserver.New(adminserver.Config{
			BindAddress:    cfg.Config.Admin.BindAddress,
			Port:           cfg.Config.Admin.Port,
			MetricsHandler: telemetry.GetMetricsHandler(),
			Log:            log.Logger,
		})
		admin.Start()
	}

	log.Info().
		Str("working_dir", cfg.Config.CommitLog.WorkingDir).
		Str("bus_driver", cfg.Config.Bus.Driver).
		Msg("cassandra-source-connector operational")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, draining")
	close(stopCh)
	det.Stop()
	if admin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = admin.Stop(ctx)
		cancel()
	}
}

// unconfiguredParser is the seam a real Cassandra commit-log parser plugs
// into. Segment framing and CommitLogReadHandler wiring live in a library
// this repository treats as an external collaborator.
type unconfiguredParser struct{}

func (unconfiguredParser) Parse(segPath string, startPosition int32, handle reader.MutationHandler) error {
	return fmt.Errorf("%w: no commit-log parser configured for %s", cdcerrors.ErrNonPermissibleParseError, segPath)
}

func newOffsetStore() (offset.Store, error) {
	switch cfg.Config.Offset.Backend {
	case cfg.OffsetBackendPebble:
		return offset.NewPebbleStore(cfg.Config.Offset.Path)
	case cfg.OffsetBackendFile:
		return offset.NewFileStore(cfg.Config.Offset.Path)
	default:
		return nil, fmt.Errorf("unknown offset backend %q", cfg.Config.Offset.Backend)
	}
}

func newTransferPolicy() (transfer.Policy, error) {
	switch cfg.Config.Transfer.Mode {
	case cfg.TransferArchive:
		return &transfer.ArchivePolicy{
			ArchiveDir: cfg.Config.Transfer.ArchiveDir,
			ErrorDir:   cfg.Config.CommitLog.ErrorDir,
			Compress:   cfg.Config.Transfer.Compress,
			Log:        log.Logger,
		}, nil
	case cfg.TransferDelete:
		return &transfer.DeletePolicy{
			ErrorDir: cfg.Config.CommitLog.ErrorDir,
			Log:      log.Logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transfer mode %q", cfg.Config.Transfer.Mode)
	}
}

func newBusClient() (busclient.Client, error) {
	switch cfg.Config.Bus.Driver {
	case "kafka":
		return busclient.New("kafka", map[string]string{
			"brokers": joinCSV(cfg.Config.Bus.Kafka.Brokers),
		})
	case "nats":
		return busclient.New("nats", map[string]string{
			"url":    cfg.Config.Bus.NATS.URL,
			"stream": cfg.Config.Bus.NATS.Stream,
		})
	default:
		return nil, fmt.Errorf("unknown bus driver %q", cfg.Config.Bus.Driver)
	}
}

func buildTableRegistry() (map[string]metadata.TableMetadata, error) {
	specs := make([]metadata.TableSpec, 0, len(cfg.Config.Tables))
	for _, t := range cfg.Config.Tables {
		pk := make([]metadata.PKColumn, 0, len(t.PrimaryKey))
		for _, c := range t.PrimaryKey {
			pk = append(pk, metadata.PKColumn{
				Name:       c.Name,
				Type:       metadata.CQLType(c.Type),
				Position:   c.Position,
				Clustering: c.Clustering,
			})
		}
		specs = append(specs, metadata.TableSpec{
			Keyspace:      t.Keyspace,
			Table:         t.Table,
			ProtocolMajor: t.ProtocolMajor,
			PrimaryKey:    pk,
		})
	}
	return metadata.BuildRegistry(specs)
}

func joinCSV(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
