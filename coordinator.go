package stage

import "log/slog"

// CoordinatorState is either Idle or Busy. It is owned by the Coordinator
// and only changes through its methods.
type CoordinatorState interface {
	coordinatorState()
}

// Idle means no transition is in flight.
type Idle struct{}

// Busy means a transition to Pending is in flight.
type Busy struct {
	Pending SceneID
}

func (Idle) coordinatorState() {}
func (Busy) coordinatorState() {}

// CoordinatorConfig names the scenes with a fixed role.
type CoordinatorConfig struct {
	// Home is the scene return-to-novel requests go back to.
	Home SceneID
	// HUD is an optional always-on scene, hidden while a non-home scene
	// is current.
	HUD SceneID
	// Overlay is the scene used for overlay requests that do not name one.
	Overlay SceneID
	// Shared is merged into the params of every home boot and overlay
	// launch (for example character definitions).
	Shared Params
}

type overlayRecord struct {
	returnTo SceneID
	blocked  bool
}

// Coordinator sequences scene transitions and overlays. At most one
// transition is in flight: requests that arrive while Busy are dropped.
// The origin scene is always fully torn down before the destination boots,
// and application input stays disabled for the whole Busy window.
type Coordinator struct {
	host   SceneHost
	bus    *Bus
	tweens TweenCanceler
	cfg    CoordinatorConfig
	log    *slog.Logger

	state    CoordinatorState
	overlays map[SceneID]overlayRecord
	subs     []Subscription
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithTweenCanceler sets what the coordinator stops before each transition.
func WithTweenCanceler(t TweenCanceler) CoordinatorOption {
	return func(c *Coordinator) { c.tweens = t }
}

// WithCoordinatorLogger sets the logger. Nil discards.
func WithCoordinatorLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.log = orDiscard(l) }
}

// NewCoordinator creates an idle coordinator driving host. Completion
// events are published on bus.
func NewCoordinator(host SceneHost, bus *Bus, cfg CoordinatorConfig, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		host:     host,
		bus:      bus,
		cfg:      cfg,
		log:      discardLogger(),
		state:    Idle{},
		overlays: make(map[SceneID]overlayRecord),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Listen subscribes the coordinator to its request topics on the bus.
func (c *Coordinator) Listen() {
	c.subs = append(c.subs,
		Handle(c.bus, TopicRequestSceneTransition, func(r TransitionRequest) { c.RequestTransition(r) }),
		Handle(c.bus, TopicReturnToNovel, func(r ReturnRequest) { c.ReturnHome(r) }),
		Handle(c.bus, TopicRequestOverlay, func(r OverlayRequest) { c.RequestOverlay(r) }),
		Handle(c.bus, TopicEndOverlay, func(m OverlayClose) { c.EndOverlay(m) }),
	)
}

// Close removes the bus subscriptions made by Listen.
func (c *Coordinator) Close() {
	for _, s := range c.subs {
		s.Remove()
	}
	c.subs = nil
}

// State returns the current state.
func (c *Coordinator) State() CoordinatorState {
	return c.state
}

// Busy reports whether a transition is in flight.
func (c *Coordinator) Busy() bool {
	_, busy := c.state.(Busy)
	return busy
}

// Start boots the first scene of the application: it launches the HUD (if
// configured) and then transitions to scene through the guarded path.
func (c *Coordinator) Start(scene SceneID, params Params) bool {
	if c.cfg.HUD != "" && !c.host.IsActive(c.cfg.HUD) {
		if _, ok := c.host.Lifecycle(c.cfg.HUD); ok {
			c.host.Start(c.cfg.HUD, nil)
		} else {
			c.log.Warn("hud scene not registered", "scene", c.cfg.HUD)
		}
	}
	p := c.cfg.Shared.Clone()
	for k, v := range params {
		p[k] = v
	}
	c.log.Info("starting", "scene", scene)
	return c.begin("", scene, p)
}

// RequestTransition replaces req.From with req.To. Returns false when the
// request was dropped (a transition is in flight, or To is unknown).
func (c *Coordinator) RequestTransition(req TransitionRequest) bool {
	c.log.Info("transition requested", "from", req.From, "to", req.To)
	if c.dropIfBusy(req.To) {
		return false
	}
	if _, ok := c.host.Lifecycle(req.To); !ok {
		c.log.Warn("transition dropped: destination not registered", "to", req.To)
		return false
	}
	if c.cfg.HUD != "" && req.To != c.cfg.Home && c.host.IsActive(c.cfg.HUD) {
		c.host.SetSceneVisible(c.cfg.HUD, false)
	}
	return c.begin(req.From, req.To, req.Params)
}

// ReturnHome is a transition from req.From back to the home scene. The
// home scene receives the shared params plus ParamResumedFrom and
// ParamReturnParams.
func (c *Coordinator) ReturnHome(req ReturnRequest) bool {
	c.log.Info("return home requested", "from", req.From, "home", c.cfg.Home)
	if c.cfg.Home == "" {
		c.log.Warn("return home dropped: no home scene configured", "from", req.From)
		return false
	}
	if c.dropIfBusy(c.cfg.Home) {
		return false
	}
	if c.cfg.HUD != "" && c.host.IsActive(c.cfg.HUD) {
		c.host.SetSceneVisible(c.cfg.HUD, true)
	}
	p := c.cfg.Shared.Clone()
	p[ParamResumedFrom] = req.From
	p[ParamReturnParams] = req.Params
	return c.begin(req.From, c.cfg.Home, p)
}

func (c *Coordinator) dropIfBusy(to SceneID) bool {
	if b, busy := c.state.(Busy); busy {
		c.log.Warn("transition dropped: another transition is in flight",
			"requested", to, "pending", b.Pending)
		return true
	}
	return false
}

// begin performs the Idle -> Busy step and schedules the boot.
func (c *Coordinator) begin(from, to SceneID, params Params) bool {
	target, ok := c.host.Lifecycle(to)
	if !ok {
		c.log.Warn("transition dropped: destination not registered", "to", to)
		return false
	}

	c.state = Busy{Pending: to}
	c.host.SetInputEnabled(false)
	if c.tweens != nil {
		if n := c.tweens.KillAll(); n > 0 {
			c.log.Debug("killed tweens", "count", n)
		}
	}

	readinessSignal(target).Once(func() { c.complete(to) })

	if from != "" && c.host.IsActive(from) {
		if origin, ok := c.host.Lifecycle(from); ok {
			origin.TeardownComplete().Once(func() { c.boot(to, params) })
			c.log.Debug("stopping origin", "scene", from)
			c.host.Stop(from)
			return true
		}
		c.host.Stop(from)
	}
	c.boot(to, params)
	return true
}

func (c *Coordinator) boot(to SceneID, params Params) {
	c.log.Debug("booting", "scene", to)
	c.host.Start(to, params)
}

func (c *Coordinator) complete(to SceneID) {
	c.state = Idle{}
	c.host.SetInputEnabled(true)
	c.log.Info("transition complete", "scene", to)
	c.bus.Publish(TopicTransitionComplete, to)
}

// RequestOverlay layers an overlay scene above req.From. Overlays do not
// touch the Busy/Idle state and do not block transitions. When input is
// blocked, only req.From loses input.
func (c *Coordinator) RequestOverlay(req OverlayRequest) bool {
	overlay := req.Overlay
	if overlay == "" {
		overlay = c.cfg.Overlay
	}
	if _, ok := c.host.Lifecycle(overlay); !ok {
		c.log.Warn("overlay dropped: scene not registered", "overlay", overlay, "from", req.From)
		return false
	}
	if _, open := c.overlays[overlay]; open {
		c.log.Warn("overlay dropped: already open", "overlay", overlay, "from", req.From)
		return false
	}

	block := req.ShouldBlockInput()
	if block && c.host.IsActive(req.From) {
		c.host.SetSceneInputEnabled(req.From, false)
		c.log.Debug("input disabled behind overlay", "scene", req.From)
	}
	c.overlays[overlay] = overlayRecord{returnTo: req.From, blocked: block}

	p := c.cfg.Shared.Clone()
	p[ParamOverlay] = OverlayParams{Content: req.Content, ReturnTo: req.From, InputWasBlocked: block}
	c.log.Info("overlay opened", "overlay", overlay, "from", req.From, "block_input", block)
	c.host.Start(overlay, p)
	return true
}

// EndOverlay stops the overlay named by msg.From. Input on msg.ReturnTo is
// re-enabled only if msg says it was blocked; otherwise it is left alone.
// A close without a matching open changes nothing.
func (c *Coordinator) EndOverlay(msg OverlayClose) {
	rec, ok := c.overlays[msg.From]
	if !ok {
		c.log.Warn("overlay close without matching open", "overlay", msg.From, "return_to", msg.ReturnTo)
		return
	}
	delete(c.overlays, msg.From)
	if rec.blocked != msg.InputWasBlocked || rec.returnTo != msg.ReturnTo {
		c.log.Warn("overlay close disagrees with open",
			"overlay", msg.From,
			"opened_from", rec.returnTo, "return_to", msg.ReturnTo,
			"opened_blocked", rec.blocked, "input_was_blocked", msg.InputWasBlocked)
	}

	if c.host.IsActive(msg.From) {
		c.host.Stop(msg.From)
	}
	if msg.InputWasBlocked && c.host.IsActive(msg.ReturnTo) {
		c.host.SetSceneInputEnabled(msg.ReturnTo, true)
		c.log.Debug("input restored after overlay", "scene", msg.ReturnTo)
	}
	c.log.Info("overlay closed", "overlay", msg.From, "return_to", msg.ReturnTo)
}

// OpenOverlays returns the number of overlays currently open.
func (c *Coordinator) OpenOverlays() int {
	return len(c.overlays)
}
