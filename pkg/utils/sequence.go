package utils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	seqNode *snowflake.Node
	seqOnce sync.Once
)

// SetSequenceNode selects the snowflake node id. It must be called before the
// first NextSeq to take effect; processes sharing a database need distinct ids.
func SetSequenceNode(id int64) error {
	node, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}
	seqOnce.Do(func() { seqNode = node })
	return nil
}

// NextSeq returns a process-wide increasing insertion sequence. Events that
// share a timestamp are ordered by it.
func NextSeq() int64 {
	seqOnce.Do(func() {
		seqNode, _ = snowflake.NewNode(1)
	})
	return seqNode.Generate().Int64()
}
