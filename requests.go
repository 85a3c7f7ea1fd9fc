package stage

// TransitionRequest asks the coordinator to replace From with To. Params is
// forwarded verbatim to the destination scene's initializer.
type TransitionRequest struct {
	From   SceneID `json:"from"`
	To     SceneID `json:"to"`
	Params Params  `json:"params,omitempty"`
}

// ReturnRequest is a transition back to the configured home scene.
type ReturnRequest struct {
	From   SceneID `json:"from"`
	Params Params  `json:"params,omitempty"`
}

// OverlayRequest asks the coordinator to layer an overlay scene above From.
// A nil BlockInput means true. Map payloads may carry Content under either
// "scenario" or "content".
type OverlayRequest struct {
	From       SceneID `json:"from"`
	Overlay    SceneID `json:"overlay,omitempty"`
	Content    any     `json:"scenario,omitempty"`
	BlockInput *bool   `json:"block_input,omitempty"`
}

// ShouldBlockInput resolves the BlockInput default.
func (r OverlayRequest) ShouldBlockInput() bool {
	return r.BlockInput == nil || *r.BlockInput
}

// OverlayClose is published by an overlay scene when it finishes. From is
// the overlay's own SceneID; InputWasBlocked carries the decision recorded
// when the overlay opened.
type OverlayClose struct {
	From            SceneID `json:"from"`
	ReturnTo        SceneID `json:"returnTo"`
	InputWasBlocked bool    `json:"inputWasBlocked"`
}

// OverlayParams is what an overlay scene receives as its Params under the
// key ParamOverlay.
type OverlayParams struct {
	Content         any
	ReturnTo        SceneID
	InputWasBlocked bool
}

// Close builds the OverlayClose message matching these parameters.
func (p OverlayParams) Close(overlay SceneID) OverlayClose {
	return OverlayClose{From: overlay, ReturnTo: p.ReturnTo, InputWasBlocked: p.InputWasBlocked}
}

// Well-known Params keys set by the coordinator.
const (
	ParamOverlay      = "overlay"
	ParamResumedFrom  = "resumedFrom"
	ParamReturnParams = "returnParams"
)

// Bool returns a pointer to v, for OverlayRequest.BlockInput.
func Bool(v bool) *bool { return &v }
