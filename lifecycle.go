package stage

// Lifecycle is the signal protocol every orchestrated scene implements.
// Ready fires once per boot, after the scene's entity graph is fully formed
// and wired. TeardownComplete fires once per stop, after every entity and
// listener owned by the scene has been released.
type Lifecycle interface {
	Ready() *Signal
	TeardownComplete() *Signal
}

// LoadedSignaler is implemented by lifecycles that define a readiness
// stronger than structural readiness (for example, all streamed assets
// present). When Loaded returns a non-nil signal the coordinator waits for
// it instead of Ready.
type LoadedSignaler interface {
	Loaded() *Signal
}

// readinessSignal picks the signal a transition waits on.
func readinessSignal(lc Lifecycle) *Signal {
	if ls, ok := lc.(LoadedSignaler); ok {
		if sig := ls.Loaded(); sig != nil {
			return sig
		}
	}
	return lc.Ready()
}

// SceneHost is the narrow view of the engine that the coordinator drives.
// Start and Stop may complete on a later tick; completion is reported
// through the scene's Lifecycle signals.
type SceneHost interface {
	// Lifecycle returns the lifecycle of a registered scene.
	Lifecycle(id SceneID) (Lifecycle, bool)
	// IsActive reports whether the scene is running (started and not
	// stopped).
	IsActive(id SceneID) bool
	// Start boots the scene with params, alongside any running scenes.
	Start(id SceneID, params Params)
	// Stop tears the scene down.
	Stop(id SceneID)
	// SetInputEnabled toggles input for the whole application.
	SetInputEnabled(enabled bool)
	// SetSceneInputEnabled toggles input for one scene.
	SetSceneInputEnabled(id SceneID, enabled bool)
	// SetSceneVisible shows or hides a running scene without stopping it.
	SetSceneVisible(id SceneID, visible bool)
}

// TweenCanceler stops every in-flight tween so no stale callback mutates a
// scene that is being torn down.
type TweenCanceler interface {
	KillAll() int
}
