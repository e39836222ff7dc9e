package state

// Opaque protocol identifiers. Per this contract the engine never parses or
// reorders these; they are passed through unchanged between caller and
// Chrome. Modeled as local string aliases rather than imported from
// chromedp/cdproto's generated per-domain packages, because the engine
// decodes CDP frames into local, field-minimal structs (this contract "model
// each event family as a tagged variant with only the fields the
// projections actually consume") instead of the full generated event types.
type (
	RequestID string
	ScriptID string
	BreakpointID string
	CallFrameID string
	NodeID int64
	ExecutionContextID int64
	ObjectID string
)
