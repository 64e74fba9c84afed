package app

import (
	"context"
	"sync"
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

// AppInfo identifies the running application to its modules.
type AppInfo struct {
	AppName     string
	Version     string
	Environment string
}

// appContext is handed to every module on Start and Stop. Only the stop time
// changes after construction.
type appContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container contracts.DIContainer
	info      AppInfo
	startedAt time.Time

	mu        sync.Mutex
	stoppedAt time.Time
}

var _ contracts.AppContext = (*appContext)(nil)

func newAppContext(parent context.Context, info AppInfo, container contracts.DIContainer) *appContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &appContext{
		ctx:       ctx,
		cancel:    cancel,
		container: container,
		info:      info,
		startedAt: time.Now(),
	}
}

func (c *appContext) Ctx() context.Context             { return c.ctx }
func (c *appContext) Container() contracts.DIContainer { return c.container }
func (c *appContext) AppName() string                  { return c.info.AppName }
func (c *appContext) Version() string                  { return c.info.Version }
func (c *appContext) Environment() string              { return c.info.Environment }
func (c *appContext) StartTime() time.Time             { return c.startedAt }

func (c *appContext) StopTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stoppedAt
}

func (c *appContext) IsRunning() bool {
	return c.StopTime().IsZero()
}

// Stop records the first stop time and cancels Ctx. Later calls only cancel again.
func (c *appContext) Stop() {
	c.mu.Lock()
	if c.stoppedAt.IsZero() {
		c.stoppedAt = time.Now()
	}
	c.mu.Unlock()
	c.cancel()
}
