package uid

import (
	"crypto/rand"
	"math/big"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator.
//
// The node number is taken from the SNOWFLAKE_NODE environment variable when
// set, otherwise a random node in [0, 1024) is used.
func NewSnowflake() (*Snowflake, error) {
	nodeNum := int64(-1)
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeNum = n
		}
	}

	if nodeNum < 0 || nodeNum > 1023 {
		n, err := rand.Int(rand.Reader, big.NewInt(1024))
		if err != nil {
			return nil, err
		}
		nodeNum = n.Int64()
	}

	node, err := snowflake.NewNode(nodeNum)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new int64 identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
