package lineage

// ClientDependencyInfo is the client-facing projection of a Dependency
// (spec §6's ClientDependencyInfo), returned by getClientDependencyInfo.
type ClientDependencyInfo struct {
	ID               int32
	ParentFiles      []int32
	ChildFiles       []int32
	Command          string
	Comment          string
	Framework        string
	FrameworkVersion string
	Type             DependencyType
	CreationTimeMs   int64
	Checkpointed     bool
	LostFiles        []int32
}

// ClientInfo projects depID into its client view; the bool is false if
// depID is unknown. Requires the lock held.
func (g *Graph) ClientInfo(depID int32) (ClientDependencyInfo, bool) {
	d := g.deps[depID]
	if d == nil {
		return ClientDependencyInfo{}, false
	}
	return ClientDependencyInfo{
		ID:               d.ID,
		ParentFiles:       append([]int32(nil), d.ParentFiles...),
		ChildFiles:        append([]int32(nil), d.ChildFiles...),
		Command:           d.Command,
		Comment:           d.Comment,
		Framework:         d.Framework,
		FrameworkVersion:  d.FrameworkVersion,
		Type:              d.Type,
		CreationTimeMs:    d.CreationTimeMs,
		Checkpointed:      d.Checkpointed(),
		LostFiles:         setToSliceInt32(d.LostFiles),
	}, true
}

func setToSliceInt32(m map[int32]struct{}) []int32 {
	out := make([]int32, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
