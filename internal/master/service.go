package master

import "github.com/tachyon-project/tachyon-master/internal/rpc"

// State satisfies both of internal/rpc's transport-free contracts; a
// future transport adapter (or a test) can depend on the interfaces
// instead of the concrete type.
var (
	_ rpc.MasterService = (*State)(nil)
	_ rpc.WorkerService = (*State)(nil)
)
