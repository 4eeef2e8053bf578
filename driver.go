package seq

import "github.com/goforj/seq/seqcore"

// Driver identifies a snapshot store backend.
type Driver = seqcore.Driver

// Store is the byte-level snapshot store contract.
type Store = seqcore.Store

const (
	DriverNull   = seqcore.DriverNull
	DriverFile   = seqcore.DriverFile
	DriverMemory = seqcore.DriverMemory
	DriverBolt   = seqcore.DriverBolt
	DriverDynamo = seqcore.DriverDynamo
	DriverSQL    = seqcore.DriverSQL
	DriverRedis  = seqcore.DriverRedis
	DriverNATS   = seqcore.DriverNATS
)

func cloneBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}
