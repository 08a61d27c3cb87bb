package cfg

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// OffsetBackend selects where the last-delivered commit-log position is
// durably tracked.
type OffsetBackend string

const (
	OffsetBackendFile   OffsetBackend = "file"
	OffsetBackendPebble OffsetBackend = "pebble"
)

// TransferMode controls what happens to a commit-log segment once every
// mutation in it has been delivered.
type TransferMode string

const (
	TransferArchive TransferMode = "archive"
	TransferDelete  TransferMode = "delete"
)

// CommitLogConfiguration controls where segments come from and how they're
// discovered.
type CommitLogConfiguration struct {
	WorkingDir              string `toml:"working_dir"`
	ErrorDir                string `toml:"error_dir"`
	DirPollIntervalMS       int    `toml:"dir_poll_interval_ms"`
	NearRealTimeCDC         bool   `toml:"near_real_time_cdc"`
	ErrorReprocessOnStart   bool   `toml:"error_reprocess_on_start"`
}

// TransferConfiguration controls what happens to fully-processed segments.
type TransferConfiguration struct {
	Mode       TransferMode `toml:"mode"`
	ArchiveDir string       `toml:"archive_dir"`
	Compress   bool         `toml:"compress"`
}

// OffsetConfiguration controls durable position tracking.
type OffsetConfiguration struct {
	Backend OffsetBackend `toml:"backend"`
	Path    string        `toml:"path"`
}

// KafkaConfiguration configures the kafka-go backed bus driver.
type KafkaConfiguration struct {
	Brokers []string `toml:"brokers"`
}

// NATSConfiguration configures the JetStream backed bus driver.
type NATSConfiguration struct {
	URL    string `toml:"url"`
	Stream string `toml:"stream"`
}

// TLSConfiguration is shared by any bus driver that talks TLS.
type TLSConfiguration struct {
	Enabled  bool   `toml:"enabled"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
	CAFile   string `toml:"ca_file"`
}

// BusConfiguration selects and configures the pub/sub driver mutations are
// published to.
type BusConfiguration struct {
	Driver      string              `toml:"driver"` // "kafka" or "nats"
	TopicPrefix string              `toml:"topic_prefix"`
	TLS         TLSConfiguration    `toml:"tls"`
	Kafka       KafkaConfiguration  `toml:"kafka"`
	NATS        NATSConfiguration  `toml:"nats"`
}

// LoggingConfiguration controls logging behavior.
type LoggingConfiguration struct {
	Verbose bool   `toml:"verbose"`
	Format  string `toml:"format"` // "console" or "json"
}

// PrometheusConfiguration for metrics.
type PrometheusConfiguration struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
	Port    int    `toml:"port"`
}

// AdminConfiguration for the HTTP admin/metrics server.
type AdminConfiguration struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
	Port        int    `toml:"port"`
}

// TableConfiguration describes one table the producer watches for
// mutations. Schema discovery over a live driver connection is out of
// scope, so the primary key shape is supplied statically here.
type TableConfiguration struct {
	Keyspace      string               `toml:"keyspace"`
	Table         string               `toml:"table"`
	ProtocolMajor int                  `toml:"protocol_major"` // 4 or 5
	PrimaryKey    []PKColumnConfig     `toml:"primary_key"`
}

// PKColumnConfig describes one primary-key column of a watched table.
type PKColumnConfig struct {
	Name       string `toml:"name"`
	Type       string `toml:"type"`
	Position   int    `toml:"position"`
	Clustering bool   `toml:"clustering"`
}

// Configuration is the main configuration structure.
type Configuration struct {
	ClusterName   string                  `toml:"cluster_name"`
	NodeUUID      string                  `toml:"node_uuid"` // empty: derive from machine id
	CommitLog     CommitLogConfiguration  `toml:"commit_log"`
	Transfer      TransferConfiguration   `toml:"transfer"`
	Offset        OffsetConfiguration     `toml:"offset"`
	Bus           BusConfiguration        `toml:"bus"`
	Tables        []TableConfiguration    `toml:"tables"`
	ExcludedGlobs []string                `toml:"excluded_keyspace_globs"`
	Logging       LoggingConfiguration    `toml:"logging"`
	Prometheus    PrometheusConfiguration `toml:"prometheus"`
	Admin         AdminConfiguration      `toml:"admin"`
}

// Command line flags.
var (
	ConfigPathFlag = flag.String("config", "config.toml", "Path to configuration file")
	WorkingDirFlag = flag.String("working-dir", "", "Commit log working directory (overrides config)")
	BusDriverFlag  = flag.String("bus-driver", "", "Bus driver: kafka or nats (overrides config)")
)

// Config is the process-wide, loaded configuration.
var Config = &Configuration{
	ClusterName: "cluster1",

	CommitLog: CommitLogConfiguration{
		WorkingDir:            "/var/lib/cassandra/cdc_raw",
		ErrorDir:              "/var/lib/cassandra/cdc_raw/errors",
		DirPollIntervalMS:     500,
		NearRealTimeCDC:       true,
		ErrorReprocessOnStart: false,
	},

	Transfer: TransferConfiguration{
		Mode:       TransferArchive,
		ArchiveDir: "/var/lib/cassandra/cdc_archive",
		Compress:   true,
	},

	Offset: OffsetConfiguration{
		Backend: OffsetBackendFile,
		Path:    "./cdc-offset.txt",
	},

	Bus: BusConfiguration{
		Driver:      "kafka",
		TopicPrefix: "cdc",
		Kafka: KafkaConfiguration{
			Brokers: []string{"localhost:9092"},
		},
		NATS: NATSConfiguration{
			URL:    "nats://localhost:4222",
			Stream: "cdc",
		},
	},

	ExcludedGlobs: []string{"system", "system_*"},

	Logging: LoggingConfiguration{
		Verbose: false,
		Format:  "console",
	},

	Prometheus: PrometheusConfiguration{
		Enabled: true,
		Address: "0.0.0.0",
		Port:    9090,
	},

	Admin: AdminConfiguration{
		Enabled:     true,
		BindAddress: "0.0.0.0",
		Port:        8686,
	},
}

// Load loads configuration from file and applies CLI overrides.
func Load(configPath string) error {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			log.Info().Str("path", configPath).Msg("loading configuration")
			if _, err := toml.DecodeFile(configPath, Config); err != nil {
				return fmt.Errorf("failed to decode config: %w", err)
			}
		} else {
			log.Warn().Str("path", configPath).Msg("config file not found, using defaults")
		}
	}

	if *WorkingDirFlag != "" {
		Config.CommitLog.WorkingDir = *WorkingDirFlag
	}
	if *BusDriverFlag != "" {
		Config.Bus.Driver = *BusDriverFlag
	}

	if err := os.MkdirAll(Config.CommitLog.WorkingDir, 0755); err != nil {
		return fmt.Errorf("failed to create commit log working directory: %w", err)
	}

	return nil
}

// Validate checks configuration for errors.
func Validate() error {
	if Config.CommitLog.WorkingDir == "" {
		return fmt.Errorf("commit_log.working_dir must be set")
	}

	if Config.CommitLog.DirPollIntervalMS < 1 {
		return fmt.Errorf("commit_log.dir_poll_interval_ms must be >= 1")
	}

	switch Config.Transfer.Mode {
	case TransferArchive, TransferDelete:
	default:
		return fmt.Errorf("invalid transfer mode: %s", Config.Transfer.Mode)
	}

	if Config.Transfer.Mode == TransferArchive && Config.Transfer.ArchiveDir == "" {
		return fmt.Errorf("transfer.archive_dir must be set when transfer.mode is archive")
	}

	switch Config.Offset.Backend {
	case OffsetBackendFile, OffsetBackendPebble:
	default:
		return fmt.Errorf("invalid offset backend: %s", Config.Offset.Backend)
	}

	if Config.Offset.Path == "" {
		return fmt.Errorf("offset.path must be set")
	}

	switch Config.Bus.Driver {
	case "kafka":
		if len(Config.Bus.Kafka.Brokers) == 0 {
			return fmt.Errorf("bus.kafka.brokers must be set when bus.driver is kafka")
		}
	case "nats":
		if Config.Bus.NATS.URL == "" {
			return fmt.Errorf("bus.nats.url must be set when bus.driver is nats")
		}
	default:
		return fmt.Errorf("invalid bus driver: %s", Config.Bus.Driver)
	}

	if Config.Admin.Enabled && (Config.Admin.Port < 1 || Config.Admin.Port > 65535) {
		return fmt.Errorf("invalid admin port: %d", Config.Admin.Port)
	}

	if Config.Prometheus.Enabled && (Config.Prometheus.Port < 1 || Config.Prometheus.Port > 65535) {
		return fmt.Errorf("invalid prometheus port: %d", Config.Prometheus.Port)
	}

	return nil
}
