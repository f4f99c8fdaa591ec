// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manager provides the [SceneManager], which mediates between
// a model and a render session of an external rendering engine.
//
// A scene manager schedules renders so that at most one render runs at a
// time: render requests that arrive while a render is running are merged
// into the next render, and every request is resolved when a render that
// started after it completes. It owns the render session, which is built
// and inflated before the first render and rebuilt when the configuration
// changes, and it caches the last render result. After each successful
// render, the view tree produced by the engine is matched against the
// components of the model to update their bounds.
package manager

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"cogentcore.org/preview/base/errors"
	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/configuration"
	"cogentcore.org/preview/events"
	"cogentcore.org/preview/model"
	"cogentcore.org/preview/render"
	"cogentcore.org/preview/scene"
)

var (
	// ErrSessionBuild is reported when a render session can not be built.
	ErrSessionBuild = errors.New("manager: unable to build render session")

	// ErrInflate is reported when a render session can not be inflated.
	ErrInflate = errors.New("manager: unable to inflate")

	// ErrRender is reported when a render fails.
	ErrRender = errors.New("manager: unable to render")

	// ErrDisposed is reported for operations on a disposed scene manager.
	ErrDisposed = errors.New("manager: scene manager is disposed")
)

// LayoutTimeout is how long [SceneManager.Layout] waits for a layout.
var LayoutTimeout = 2 * time.Second

// Options are the render options of a [SceneManager].
type Options struct {

	// UseImagePool is whether rendered images come from the image pool.
	UseImagePool bool

	// Quality is the scale of rendered images, in (0, 1].
	Quality float32

	// ShowDecorations is whether system decorations are rendered.
	ShowDecorations bool

	// Shrink is whether images are cropped to the content.
	Shrink bool

	// Transparent is whether the background is left transparent.
	Transparent bool

	// LogRenderErrors is whether the engine logs problems in the content.
	LogRenderErrors bool

	// RerenderOnDerivedData is whether a render is requested
	// when data derived from the model changes.
	RerenderOnDerivedData bool

	// RenderSynchronously is whether [SceneManager.RequestLayoutAndRender]
	// renders on the calling goroutine instead of queueing a render.
	RenderSynchronously bool

	// EngineConstraint is the semantic version constraint that the
	// engine must satisfy, such as ">= 1.2". Empty accepts any engine.
	EngineConstraint string
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{UseImagePool: true, Quality: 1, LogRenderErrors: true, RerenderOnDerivedData: true}
}

// sessionOptions returns the options that a render session is built with.
func (o Options) sessionOptions() Options {
	return Options{UseImagePool: o.UseImagePool, Quality: o.Quality, ShowDecorations: o.ShowDecorations, Shrink: o.Shrink, Transparent: o.Transparent, LogRenderErrors: o.LogRenderErrors, EngineConstraint: o.EngineConstraint}
}

// State is the state of the render session of a [SceneManager].
type State int32

const (
	// StateNoSession is the state before the first inflate
	// and after the session has been invalidated.
	StateNoSession State = iota

	// StateInflated is the state after a successful inflate.
	StateInflated

	// StateRendered is the state after a successful render.
	StateRendered

	// StateDisposed is the terminal state.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateInflated:
		return "inflated"
	case StateRendered:
		return "rendered"
	case StateDisposed:
		return "disposed"
	}
	return "no-session"
}

// Diagnostics are statistics about the renders of a [SceneManager].
type Diagnostics struct {
	Inflates           int64
	Renders            int64
	LastRenderDuration time.Duration
	LastImageBytes     int64
}

// RenderListener is notified of the progress of inflates and renders.
type RenderListener interface {
	InflateStarted()
	InflateCompleted()
	RenderStarted()
	RenderCompleted()
}

// RenderFuncs is a [RenderListener] made of optional functions.
type RenderFuncs struct {
	OnInflateStarted   func()
	OnInflateCompleted func()
	OnRenderStarted    func()
	OnRenderCompleted  func()
}

func call(f func()) {
	if f != nil {
		f()
	}
}

func (f *RenderFuncs) InflateStarted()   { call(f.OnInflateStarted) }
func (f *RenderFuncs) InflateCompleted() { call(f.OnInflateCompleted) }
func (f *RenderFuncs) RenderStarted()    { call(f.OnRenderStarted) }
func (f *RenderFuncs) RenderCompleted()  { call(f.OnRenderCompleted) }

// SceneManager manages the render session, the render scheduling and the
// scene of one model. It is safe for concurrent use.
type SceneManager struct {
	model  *model.Model
	scene  *scene.Scene
	svc    render.Service
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	optsMu      sync.Mutex
	opts        Options
	executor    Executor
	ownQueue    *MergingQueue
	disposeTask func(fun func())

	// futuresMu guards the render futures and the rendering flag.
	futuresMu   sync.Mutex
	isRendering bool
	pending     []*future.Future[struct{}]
	inFlight    []*future.Future[struct{}]

	// renderMu serializes inflates and renders.
	renderMu sync.Mutex

	// taskMu guards the session, its clock and its state.
	taskMu   sync.RWMutex
	task     render.Task
	clock    sessionClock
	rendered bool

	// resultMu guards the cached result.
	resultMu sync.RWMutex
	result   *render.Result

	hierarchy *semaphore.Weighted

	forceInflate   atomic.Bool
	disposed       atomic.Bool
	frameTime      atomic.Int64
	density        atomic.Int64
	inflates       atomic.Int64
	renders        atomic.Int64
	lastRenderTime atomic.Int64
	lastImageBytes atomic.Int64

	renderListeners events.Listeners[RenderListener]
	removeListeners []func()
}

// New returns a new scene manager for the given model that renders with
// the given engine. Updates run on a [MergingQueue] owned by the manager
// until another executor is set with [SceneManager.SetExecutor].
func New(m *model.Model, svc render.Service, opts Options) *SceneManager {
	sm := &SceneManager{
		model:     m,
		scene:     scene.New(m),
		svc:       svc,
		logger:    slog.Default(),
		opts:      opts,
		hierarchy: semaphore.NewWeighted(1),
		clock:     newSessionClock(time.Now),
	}
	sm.ctx, sm.cancel = context.WithCancel(context.Background())
	sm.ownQueue = NewMergingQueue()
	sm.executor = sm.ownQueue
	sm.frameTime.Store(-1)
	sm.density.Store(int64(m.Configuration().State().Device.DPI))
	sm.removeListeners = append(sm.removeListeners,
		m.AddListener(&modelListener{sm: sm}),
		m.Configuration().AddListener(sm.configurationChanged))
	return sm
}

// SetExecutor sets the executor that runs model updates and renders.
// The queue created by [New] is closed.
func (sm *SceneManager) SetExecutor(e Executor) *SceneManager {
	sm.optsMu.Lock()
	defer sm.optsMu.Unlock()
	if sm.ownQueue != nil {
		sm.ownQueue.Close()
		sm.ownQueue = nil
	}
	sm.executor = e
	return sm
}

// SetTaskDisposer sets the function used to dispose the render session
// when the manager is disposed. It is used to move the disposal off a
// goroutine that must not block on it. Nil disposes on the calling goroutine.
func (sm *SceneManager) SetTaskDisposer(fun func(dispose func())) *SceneManager {
	sm.optsMu.Lock()
	defer sm.optsMu.Unlock()
	sm.disposeTask = fun
	return sm
}

// SetLogger sets the logger of the manager.
func (sm *SceneManager) SetLogger(logger *slog.Logger) *SceneManager {
	sm.optsMu.Lock()
	defer sm.optsMu.Unlock()
	sm.logger = logger
	return sm
}

// SetClock sets the function that the session clock gets the time from.
func (sm *SceneManager) SetClock(now func() time.Time) *SceneManager {
	sm.taskMu.Lock()
	defer sm.taskMu.Unlock()
	sm.clock = newSessionClock(now)
	return sm
}

func (sm *SceneManager) log() *slog.Logger {
	sm.optsMu.Lock()
	defer sm.optsMu.Unlock()
	return sm.logger
}

// Model returns the model of the manager.
func (sm *SceneManager) Model() *model.Model {
	return sm.model
}

// Scene returns the scene of the manager.
func (sm *SceneManager) Scene() *scene.Scene {
	return sm.scene
}

// Options returns the current options.
func (sm *SceneManager) Options() Options {
	sm.optsMu.Lock()
	defer sm.optsMu.Unlock()
	return sm.opts
}

// SetOptions sets the options. A change of any option that affects the
// render session forces a re-inflate on the next render.
func (sm *SceneManager) SetOptions(opts Options) {
	sm.optsMu.Lock()
	changed := sm.opts.sessionOptions() != opts.sessionOptions()
	sm.opts = opts
	sm.optsMu.Unlock()
	if changed {
		sm.ForceReinflate()
	}
}

// SetShowDecorations sets whether system decorations are rendered,
// which needs a new session when it changes.
func (sm *SceneManager) SetShowDecorations(show bool) {
	opts := sm.Options()
	opts.ShowDecorations = show
	sm.SetOptions(opts)
}

func (sm *SceneManager) renderOptions() render.Options {
	sm.optsMu.Lock()
	defer sm.optsMu.Unlock()
	o := sm.opts
	ro := render.Options{UseImagePool: o.UseImagePool, Quality: o.Quality, ShowDecorations: o.ShowDecorations, Shrink: o.Shrink, Transparent: o.Transparent, Logger: sm.logger}
	if !o.LogRenderErrors {
		ro.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return ro
}

func (sm *SceneManager) queue(u Update) {
	sm.optsMu.Lock()
	e := sm.executor
	sm.optsMu.Unlock()
	e.Queue(u)
}

// AddRenderListener adds a render listener and returns
// a function that removes it.
func (sm *SceneManager) AddRenderListener(l RenderListener) (remove func()) {
	if sm.disposed.Load() {
		sm.log().Warn("manager: render listener added after dispose", "file", sm.model.File())
	}
	return sm.renderListeners.Add(l)
}

// IsDisposed returns whether the manager has been disposed.
func (sm *SceneManager) IsDisposed() bool {
	return sm.disposed.Load()
}

// State returns the state of the render session.
func (sm *SceneManager) State() State {
	if sm.disposed.Load() {
		return StateDisposed
	}
	sm.taskMu.RLock()
	defer sm.taskMu.RUnlock()
	switch {
	case sm.task == nil || sm.forceInflate.Load():
		return StateNoSession
	case sm.rendered:
		return StateRendered
	}
	return StateInflated
}

// RenderResult returns the cached result of the last inflate or render,
// which stays valid until it is replaced.
func (sm *SceneManager) RenderResult() *render.Result {
	sm.resultMu.RLock()
	defer sm.resultMu.RUnlock()
	return sm.result
}

// Diagnostics returns statistics about the renders.
func (sm *SceneManager) Diagnostics() Diagnostics {
	return Diagnostics{
		Inflates:           sm.inflates.Load(),
		Renders:            sm.renders.Load(),
		LastRenderDuration: time.Duration(sm.lastRenderTime.Load()),
		LastImageBytes:     sm.lastImageBytes.Load(),
	}
}

// SetElapsedFrameTime sets the session time used by the following
// renders. A negative duration leaves the time to the engine.
func (sm *SceneManager) SetElapsedFrameTime(d time.Duration) {
	sm.frameTime.Store(int64(d))
}

// configurationChanged forces a new session for the new configuration
// and updates the scene when the density changed.
func (sm *SceneManager) configurationChanged(flags configuration.Flags) {
	if sm.disposed.Load() {
		return
	}
	if flags.Has(configuration.FlagDensity) {
		dpi := int64(sm.model.Configuration().State().Device.DPI)
		if sm.density.Swap(dpi) != dpi {
			sm.scene.Update()
		}
	}
	sm.ForceReinflate()
	sm.RequestRender(render.TriggerConfiguration)
}

// Dispose disposes the manager. Waiting render requests are cancelled,
// and the render session and cached result are released. Dispose is
// idempotent.
func (sm *SceneManager) Dispose() {
	if sm.disposed.Swap(true) {
		return
	}
	for _, remove := range sm.removeListeners {
		remove()
	}
	sm.renderListeners.Clear()

	sm.futuresMu.Lock()
	waiting := append(sm.pending, sm.inFlight...)
	sm.pending, sm.inFlight = nil, nil
	sm.futuresMu.Unlock()
	for _, f := range waiting {
		f.Cancel()
	}
	sm.cancel()

	sm.optsMu.Lock()
	if sm.ownQueue != nil {
		sm.ownQueue.Close()
	}
	disposer := sm.disposeTask
	sm.optsMu.Unlock()
	if disposer != nil {
		disposer(sm.disposeRenderTask)
	} else {
		sm.disposeRenderTask()
	}
}

func (sm *SceneManager) disposeRenderTask() {
	sm.taskMu.Lock()
	task := sm.task
	sm.task = nil
	sm.taskMu.Unlock()
	if task != nil {
		sm.disposeTaskLogged(task)
	}
	sm.setResult(nil)
}

func (sm *SceneManager) disposeTaskLogged(task render.Task) {
	if task.IsDisposed() {
		return
	}
	if err := task.Dispose(); err != nil {
		sm.log().Warn("manager: unable to dispose render session", "file", sm.model.File(), "err", err)
	}
}
