package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/volume-uploader/backend/internal/models"
	"go.uber.org/zap"
)

// Default timings.
const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultMessageTTL      = 5 * time.Second
)

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("widget: controller already running")

// API is the upload service as seen by the controller.
type API interface {
	Upload(ctx context.Context, name string, body io.Reader) (*models.UploadResponse, error)
	ListFiles(ctx context.Context) (*models.ListResponse, error)
}

// View draws a State. Render is always called from the controller goroutine.
type View interface {
	Render(State)
}

// ViewFunc adapts a function to View.
type ViewFunc func(State)

func (f ViewFunc) Render(s State) { f(s) }

// Options configures a Controller.
type Options struct {
	API    API
	View   View
	Clock  Clock
	Logger *zap.Logger

	// RefreshInterval is the period of the automatic list refresh.
	// Zero means DefaultRefreshInterval, negative disables it.
	RefreshInterval time.Duration
	// MessageTTL is how long a success message stays visible.
	// Zero means DefaultMessageTTL.
	MessageTTL time.Duration
}

// Controller drives one upload form. All fields below events are owned by
// the Run goroutine; other goroutines talk to it by posting closures.
type Controller struct {
	api             API
	view            View
	clock           Clock
	logger          *zap.Logger
	refreshInterval time.Duration
	messageTTL      time.Duration

	events  chan func()
	done    chan struct{}
	running atomic.Bool

	snapMu sync.RWMutex
	snap   State

	ctx         context.Context
	state       State
	stopDismiss func() bool
	refreshSeq  uint64
	appliedSeq  uint64
}

// New creates a Controller. It does nothing until Run is called.
func New(opts Options) *Controller {
	c := &Controller{
		api:             opts.API,
		view:            opts.View,
		clock:           opts.Clock,
		logger:          opts.Logger,
		refreshInterval: opts.RefreshInterval,
		messageTTL:      opts.MessageTTL,
		events:          make(chan func(), 64),
		done:            make(chan struct{}),
		ctx:             context.Background(),
	}
	if c.view == nil {
		c.view = ViewFunc(func(State) {})
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.refreshInterval == 0 {
		c.refreshInterval = DefaultRefreshInterval
	}
	if c.messageTTL <= 0 {
		c.messageTTL = DefaultMessageTTL
	}
	return c
}

// Run renders the initial state, fetches the file list immediately and
// then processes events until ctx is done. In-flight requests are
// cancelled through ctx.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(c.done)

	c.ctx = ctx

	// The ticker is armed before the first fetch so a tick can never
	// precede it.
	var tick <-chan time.Time
	if c.refreshInterval > 0 {
		ch, stop := c.clock.Tick(c.refreshInterval)
		defer stop()
		tick = ch
	}

	c.render()
	c.refresh()

	for {
		select {
		case <-ctx.Done():
			if c.stopDismiss != nil {
				c.stopDismiss()
			}
			return nil
		case fn := <-c.events:
			fn()
		case <-tick:
			c.refresh()
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} { return c.done }

// State returns the most recently rendered state.
func (c *Controller) State() State {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap
}

// SelectFile selects f; nil clears the selection.
func (c *Controller) SelectFile(f *File) {
	var picked *File
	if f != nil {
		cp := *f
		picked = &cp
	}
	c.post(func() { c.setState(SelectFile(c.state, picked)) })
}

// AcceptDrop handles a drop of one or more files.
func (c *Controller) AcceptDrop(files []File) {
	dropped := append([]File(nil), files...)
	c.post(func() { c.setState(AcceptDrop(c.state, dropped)) })
}

// Submit uploads the selected file.
func (c *Controller) Submit() {
	c.post(c.submit)
}

// Refresh re-fetches the file list.
func (c *Controller) Refresh() {
	c.post(c.refresh)
}

// DismissMessage hides the current message.
func (c *Controller) DismissMessage() {
	c.post(func() { c.showMessage(HideMessage(c.state)) })
}

// post hands fn to the Run goroutine. It gives up once Run has returned.
func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *Controller) setState(s State) {
	c.state = s
	c.render()
}

func (c *Controller) render() {
	c.snapMu.Lock()
	c.snap = c.state
	c.snapMu.Unlock()
	c.view.Render(c.state)
}

// showMessage installs s, whose message may have changed. A new message
// cancels the previous auto-dismiss timer and, for success messages, arms
// a fresh one before the state is rendered. ExpireMessage also ignores
// stale IDs.
func (c *Controller) showMessage(s State) {
	if s.Message.ID != c.state.Message.ID {
		if c.stopDismiss != nil {
			c.stopDismiss()
			c.stopDismiss = nil
		}
		if s.Message.Kind == MessageSuccess && s.Message.Visible {
			id := s.Message.ID
			c.stopDismiss = c.clock.AfterFunc(c.messageTTL, func() {
				c.post(func() { c.setState(ExpireMessage(c.state, id)) })
			})
		}
	}
	c.setState(s)
}

func (c *Controller) submit() {
	next, err := BeginUpload(c.state)
	if errors.Is(err, ErrUploadInFlight) {
		c.logger.Debug("submit ignored, upload in progress")
		return
	}
	c.showMessage(next)
	if err != nil {
		return
	}

	file := *next.Selected
	ctx := c.ctx
	go func() {
		resp, err := c.upload(ctx, file)
		c.post(func() { c.finishUpload(file, resp, err) })
	}()
}

func (c *Controller) upload(ctx context.Context, f File) (*models.UploadResponse, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("%s has no content", f.Name)
	}
	body, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return c.api.Upload(ctx, f.Name, body)
}

func (c *Controller) finishUpload(f File, resp *models.UploadResponse, err error) {
	next, refresh := CompleteUpload(c.state, resp, err)
	if err != nil {
		c.logger.Warn("upload failed", zap.String("file", f.Name), zap.Error(err))
	}
	c.showMessage(next)
	if refresh {
		c.refresh()
	}
}

// refresh starts a list fetch stamped with a new sequence number. Results
// older than the newest applied one are dropped, so overlapping fetches
// cannot overwrite fresher data.
func (c *Controller) refresh() {
	c.refreshSeq++
	seq := c.refreshSeq
	ctx := c.ctx
	go func() {
		resp, err := c.api.ListFiles(ctx)
		c.post(func() { c.finishRefresh(seq, resp, err) })
	}()
}

func (c *Controller) finishRefresh(seq uint64, resp *models.ListResponse, err error) {
	switch {
	case err != nil:
		c.logger.Warn("failed to refresh file list", zap.Uint64("seq", seq), zap.Error(err))
		return
	case resp == nil || !resp.Success:
		var reason string
		if resp != nil {
			reason = resp.Error
		}
		c.logger.Warn("file list request unsuccessful", zap.Uint64("seq", seq), zap.String("error", reason))
		return
	case seq <= c.appliedSeq:
		c.logger.Debug("discarding stale file list", zap.Uint64("seq", seq), zap.Uint64("applied", c.appliedSeq))
		return
	}
	c.appliedSeq = seq
	c.setState(ApplyList(c.state, resp.Files))
}
