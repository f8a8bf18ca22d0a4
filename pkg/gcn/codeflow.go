package gcn

// FlowKind classifies a branch-like instruction's effect on control flow
// (§6).
type FlowKind int

const (
	FlowJump FlowKind = iota
	FlowCJump
	FlowCall
	FlowEnd
)

// FlowEdge is one code-flow stream entry: (source offset, target offset,
// kind) (§6). END edges carry Target == Source (no real target).
type FlowEdge struct {
	Source int64
	Target int64
	Kind   FlowKind
}
