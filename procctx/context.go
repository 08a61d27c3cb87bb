// Package procctx supplies the ambient identity every component needs but
// none should reach for through a global: the cluster name and this node's
// stable UUID. It replaces the thread-local/static-singleton pattern the
// producer's design explicitly avoids, at the cost of one extra
// constructor argument threaded through the pipeline.
package procctx

import (
	"fmt"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

// appID salts the machine id so the derived value is specific to this
// producer rather than reusable by any other process reading the same
// machine id.
const appID = "cassandra-source-connector"

// Context carries the identity fields SourceInfo needs on every mutation.
type Context struct {
	ClusterName string
	NodeUUID    string
}

// New builds a Context for clusterName, deriving a stable per-machine node
// UUID unless overrideNodeUUID is non-empty.
func New(clusterName, overrideNodeUUID string) (Context, error) {
	if overrideNodeUUID != "" {
		return Context{ClusterName: clusterName, NodeUUID: overrideNodeUUID}, nil
	}

	id, err := localNodeUUID()
	if err != nil {
		return Context{}, fmt.Errorf("procctx: derive node uuid: %w", err)
	}
	return Context{ClusterName: clusterName, NodeUUID: id}, nil
}

func localNodeUUID() (string, error) {
	protected, err := machineid.ProtectedID(appID)
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(protected)).String(), nil
}
