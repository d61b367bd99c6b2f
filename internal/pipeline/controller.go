package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/justsurfingit/talentra/internal/models"
)

// FallbackMessage is shown when a failed update carries no message.
const FallbackMessage = "Failed to update status"

// StatusUpdater persists a status change, typically over HTTP.
type StatusUpdater interface {
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

// Notifier surfaces a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Controller owns one board and keeps it in step with the server.
// It is safe for concurrent use.
type Controller struct {
	mu    sync.Mutex
	board Board

	updater  StatusUpdater
	notifier Notifier
	log      *zap.Logger
	wg       sync.WaitGroup
}

// NewController starts from board.
func NewController(board Board, updater StatusUpdater, notifier Notifier, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		board:    board,
		updater:  updater,
		notifier: notifier,
		log:      log,
	}
}

// Snapshot returns the current board.
func (c *Controller) Snapshot() Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board
}

// Grab starts dragging card id.
func (c *Controller) Grab(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.board.BeginMove(id)
	if err != nil {
		return err
	}
	c.board = next
	return nil
}

// Drop releases the grabbed card on target. The snapshot changes before
// Drop returns; the server call runs in the background under ctx.
func (c *Controller) Drop(ctx context.Context, target string) (Move, bool) {
	c.mu.Lock()
	next, move, changed := c.board.ResolveMove(target)
	c.board = next
	c.mu.Unlock()

	if !changed {
		return Move{}, false
	}

	c.wg.Add(1)
	go c.persist(ctx, move)
	return move, true
}

// Move is Grab followed by Drop.
func (c *Controller) Move(ctx context.Context, id, target string) (Move, bool, error) {
	if err := c.Grab(id); err != nil {
		return Move{}, false, err
	}
	move, changed := c.Drop(ctx, target)
	return move, changed, nil
}

func (c *Controller) persist(ctx context.Context, m Move) {
	defer c.wg.Done()

	err := c.updater.UpdateApplicationStatus(ctx, m.ID, m.To)
	if err == nil {
		c.mu.Lock()
		c.board = c.board.ConfirmMove(m)
		c.mu.Unlock()

		c.log.Debug("Status change confirmed",
			zap.String("application_id", m.ID),
			zap.String("status", string(m.To)))
		return
	}

	c.mu.Lock()
	next, reverted := c.board.RevertMove(m)
	c.board = next
	c.mu.Unlock()

	c.log.Warn("Status change failed",
		zap.String("application_id", m.ID),
		zap.String("from", string(m.From)),
		zap.String("to", string(m.To)),
		zap.Bool("reverted", reverted),
		zap.Error(err))

	msg := err.Error()
	if msg == "" {
		msg = FallbackMessage
	}
	if c.notifier != nil {
		c.notifier.Notify(msg)
	}
}

// Wait blocks until every in-flight update has been handled.
func (c *Controller) Wait() {
	c.wg.Wait()
}
