package resource

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
)

type filesKey struct{}

// pendingFiles collects stored paths touched by one write. Paths queued with
// RemoveAfterCommit are deleted once the transaction commits; paths queued
// with RemoveOnRollback are deleted when it does not.
type pendingFiles struct {
	mu          sync.Mutex
	afterCommit []string
	onRollback  []string
}

func withPendingFiles(ctx context.Context) (context.Context, *pendingFiles) {
	p := &pendingFiles{}
	return context.WithValue(ctx, filesKey{}, p), p
}

func pendingFrom(ctx context.Context) *pendingFiles {
	p, _ := ctx.Value(filesKey{}).(*pendingFiles)
	return p
}

// RemoveAfterCommit schedules paths for deletion once the surrounding write
// commits. Outside a service write it is a no-op.
func RemoveAfterCommit(ctx context.Context, paths ...string) {
	p := pendingFrom(ctx)
	if p == nil {
		return
	}
	p.mu.Lock()
	p.afterCommit = append(p.afterCommit, paths...)
	p.mu.Unlock()
}

// RemoveOnRollback schedules freshly stored paths for deletion if the
// surrounding write fails.
func RemoveOnRollback(ctx context.Context, paths ...string) {
	p := pendingFrom(ctx)
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onRollback = append(p.onRollback, paths...)
	p.mu.Unlock()
}

func (p *pendingFiles) settle(ctx context.Context, store storage.Store, logg *logger.Logger, committed bool) {
	p.mu.Lock()
	paths := p.onRollback
	if committed {
		paths = p.afterCommit
	}
	p.afterCommit, p.onRollback = nil, nil
	p.mu.Unlock()

	if len(paths) == 0 || store == nil {
		return
	}
	// The write already has its outcome; a failed removal only leaves an orphan.
	if err := storage.Remove(context.WithoutCancel(ctx), store, paths...); err != nil && logg != nil {
		logg.Error(ctx, "resource.files.cleanup_failed", err)
	}
}
