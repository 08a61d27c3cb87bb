// Package publisher turns a Mutation into a bus message: it derives (and
// caches) the AVRO key schema for the mutation's table, encodes the key and
// value, builds the topic name, and hands the message to a busclient.Client.
package publisher

import (
	"encoding/hex"
	"fmt"

	"github.com/datastax/cassandra-source-connector/avro"
	"github.com/datastax/cassandra-source-connector/busclient"
	"github.com/datastax/cassandra-source-connector/metadata"
	"github.com/datastax/cassandra-source-connector/mutation"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// schemaEntry is what the per-table cache stores: the derived key schema,
// or a permanent "unsupported" marker so a table with an unsupported PK
// column type is only rejected once instead of on every mutation.
type schemaEntry struct {
	schema      avro.Schema
	unsupported bool
}

// Publisher owns the per-table schema cache and the shared bus client.
// The cache is never evicted during the process lifetime: table schemas
// don't change often enough in a running cluster to justify eviction, and
// re-deriving them on every mutation would be wasted work on the hot path.
type Publisher struct {
	client      busclient.Client
	topicPrefix string
	log         zerolog.Logger
	schemas     *xsync.MapOf[string, *schemaEntry]

	skippedMutations func()
}

// Config configures a Publisher.
type Config struct {
	Client           busclient.Client
	TopicPrefix      string
	Log              zerolog.Logger
	OnSkippedMutation func() // invoked once per mutation skipped for an unsupported table
}

// New creates a Publisher backed by the given bus client.
func New(cfg Config) *Publisher {
	onSkip := cfg.OnSkippedMutation
	if onSkip == nil {
		onSkip = func() {}
	}
	return &Publisher{
		client:           cfg.Client,
		topicPrefix:      cfg.TopicPrefix,
		log:              cfg.Log,
		schemas:          xsync.NewMapOf[string, *schemaEntry](),
		skippedMutations: onSkip,
	}
}

// Topic returns the topic name a mutation for the given keyspace/table is
// published to.
func (p *Publisher) Topic(keyspace, table string) string {
	name := metadata.QualifiedName(keyspace, table)
	if p.topicPrefix == "" {
		return name
	}
	return p.topicPrefix + name
}

// Publish encodes m using tbl's primary key schema and sends it to the bus.
// It returns (false, nil) rather than an error when the table's primary
// key contains a column type with no AVRO mapping: such tables are
// permanently skipped, not retried.
func (p *Publisher) Publish(m mutation.Mutation, tbl metadata.TableMetadata) (bool, error) {
	qualified := metadata.QualifiedName(m.Keyspace, m.Table)

	entry, _ := p.schemas.LoadOrCompute(qualified, func() *schemaEntry {
		schema, err := avro.DeriveSchema(qualified, tbl.PrimaryKey())
		if err != nil {
			p.log.Warn().Str("table", qualified).Err(err).Msg("table has unsupported primary key type, skipping")
			return &schemaEntry{unsupported: true}
		}
		return &schemaEntry{schema: schema}
	})

	if entry.unsupported {
		p.skippedMutations()
		return false, nil
	}

	keyValues := make([]interface{}, len(m.Row.Cells))
	for i, c := range m.Row.Cells {
		keyValues[i] = c.Value
	}

	key, err := avro.EncodeKey(entry.schema, keyValues)
	if err != nil {
		return false, fmt.Errorf("publisher: encode key for %s: %w", qualified, err)
	}

	value, err := avro.EncodeMutationValue(hex.EncodeToString(m.Digest[:]), m.Source.NodeUUID, m.Op.String())
	if err != nil {
		return false, fmt.Errorf("publisher: encode value for %s: %w", qualified, err)
	}

	if err := p.client.Send(p.Topic(m.Keyspace, m.Table), string(key), value); err != nil {
		return false, fmt.Errorf("publisher: send to %s: %w", p.Topic(m.Keyspace, m.Table), err)
	}
	return true, nil
}

// Close releases the underlying bus client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
