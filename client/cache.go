// File: client/cache.go
package client

import (
    "context"
    "sync"
    "time"
)

// tentativeIDBase keeps locally synthesized ids far away from anything the
// server will ever assign, so reconciliation can tell the two apart.
const tentativeIDBase = 1 << 30

// TaskAPI is the slice of Client the cache needs; tests substitute a fake.
type TaskAPI interface {
    ListTasks(ctx context.Context, status string) ([]Task, error)
    CreateTask(ctx context.Context, title, description string) (*Task, error)
    UpdateTask(ctx context.Context, taskID uint, title, description *string) (*Task, error)
    CompleteTask(ctx context.Context, taskID uint) (*Task, error)
    DeleteTask(ctx context.Context, taskID uint) error
}

// TaskCache is the optimistic-update layer over the task list. Every
// mutation applies a tentative local result immediately, then issues the
// real request: success reconciles the tentative entry against the server's
// authoritative row, failure rolls the whole list back to its pre-mutation
// snapshot. Any in-flight refresh is cancelled before a tentative write is
// applied, so a stale read can never clobber an optimistic state.
type TaskCache struct {
    api TaskAPI

    mu            sync.Mutex
    tasks         []Task
    refreshCancel context.CancelFunc
    nextTentative uint
}

func NewTaskCache(api TaskAPI) *TaskCache {
    return &TaskCache{api: api, nextTentative: tentativeIDBase}
}

// Tasks returns a copy of the current visible list, tentative entries
// included.
func (tc *TaskCache) Tasks() []Task {
    tc.mu.Lock()
    defer tc.mu.Unlock()
    out := make([]Task, len(tc.tasks))
    copy(out, tc.tasks)
    return out
}

// Refresh replaces the cache with the server's list. It is the read that
// optimistic writes race against, so it registers a cancel handle and checks
// it before committing: a refresh that lost the race drops its result.
func (tc *TaskCache) Refresh(ctx context.Context) error {
    refreshCtx, cancel := context.WithCancel(ctx)

    tc.mu.Lock()
    if tc.refreshCancel != nil {
        tc.refreshCancel()
    }
    tc.refreshCancel = cancel
    tc.mu.Unlock()

    tasks, err := tc.api.ListTasks(refreshCtx, "all")

    tc.mu.Lock()
    defer tc.mu.Unlock()
    if refreshCtx.Err() != nil {
        return refreshCtx.Err()
    }
    if err != nil {
        return err
    }
    tc.tasks = tasks
    tc.refreshCancel = nil
    return nil
}

// cancelRefreshLocked aborts any in-flight read before an optimistic write.
func (tc *TaskCache) cancelRefreshLocked() {
    if tc.refreshCancel != nil {
        tc.refreshCancel()
        tc.refreshCancel = nil
    }
}

func (tc *TaskCache) snapshotLocked() []Task {
    snapshot := make([]Task, len(tc.tasks))
    copy(snapshot, tc.tasks)
    return snapshot
}

func (tc *TaskCache) rollback(snapshot []Task) {
    tc.mu.Lock()
    defer tc.mu.Unlock()
    tc.tasks = snapshot
}

// CreateTask appends a tentative task, then reconciles it with the created
// row or rolls back.
func (tc *TaskCache) CreateTask(ctx context.Context, title, description string) (*Task, error) {
    now := time.Now().Format(time.RFC3339)

    tc.mu.Lock()
    tc.cancelRefreshLocked()
    snapshot := tc.snapshotLocked()
    tc.nextTentative++
    tentativeID := tc.nextTentative
    tc.tasks = append(tc.tasks, Task{
        ID:          tentativeID,
        Title:       title,
        Description: description,
        CreatedAt:   now,
        UpdatedAt:   now,
    })
    tc.mu.Unlock()

    created, err := tc.api.CreateTask(ctx, title, description)
    if err != nil {
        tc.rollback(snapshot)
        return nil, err
    }

    tc.mu.Lock()
    for i := range tc.tasks {
        if tc.tasks[i].ID == tentativeID {
            tc.tasks[i] = *created
            break
        }
    }
    tc.mu.Unlock()
    return created, nil
}

// UpdateTask applies the field changes tentatively, then reconciles.
func (tc *TaskCache) UpdateTask(ctx context.Context, taskID uint, title, description *string) (*Task, error) {
    tc.mu.Lock()
    tc.cancelRefreshLocked()
    snapshot := tc.snapshotLocked()
    for i := range tc.tasks {
        if tc.tasks[i].ID == taskID {
            if title != nil {
                tc.tasks[i].Title = *title
            }
            if description != nil {
                tc.tasks[i].Description = *description
            }
            break
        }
    }
    tc.mu.Unlock()

    updated, err := tc.api.UpdateTask(ctx, taskID, title, description)
    if err != nil {
        tc.rollback(snapshot)
        return nil, err
    }
    tc.reconcile(*updated)
    return updated, nil
}

// CompleteTask flips the completion flag tentatively, then reconciles.
func (tc *TaskCache) CompleteTask(ctx context.Context, taskID uint) (*Task, error) {
    tc.mu.Lock()
    tc.cancelRefreshLocked()
    snapshot := tc.snapshotLocked()
    for i := range tc.tasks {
        if tc.tasks[i].ID == taskID {
            tc.tasks[i].Completed = true
            break
        }
    }
    tc.mu.Unlock()

    completed, err := tc.api.CompleteTask(ctx, taskID)
    if err != nil {
        tc.rollback(snapshot)
        return nil, err
    }
    tc.reconcile(*completed)
    return completed, nil
}

// DeleteTask removes the task tentatively, then confirms or rolls back.
func (tc *TaskCache) DeleteTask(ctx context.Context, taskID uint) error {
    tc.mu.Lock()
    tc.cancelRefreshLocked()
    snapshot := tc.snapshotLocked()
    kept := tc.tasks[:0:0]
    for _, t := range tc.tasks {
        if t.ID != taskID {
            kept = append(kept, t)
        }
    }
    tc.tasks = kept
    tc.mu.Unlock()

    if err := tc.api.DeleteTask(ctx, taskID); err != nil {
        tc.rollback(snapshot)
        return err
    }
    return nil
}

// reconcile replaces the cached row with the server's authoritative version.
func (tc *TaskCache) reconcile(authoritative Task) {
    tc.mu.Lock()
    defer tc.mu.Unlock()
    for i := range tc.tasks {
        if tc.tasks[i].ID == authoritative.ID {
            tc.tasks[i] = authoritative
            return
        }
    }
}
