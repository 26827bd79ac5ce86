package surface

import (
	"context"
	"image"
)

// Task is a pending or finished rasterization.
type Task struct {
	done chan struct{}
	img  *image.NRGBA
	err  error
}

// Start renders src with s. Deferred sources run on their own goroutine;
// everything else is rendered before Start returns.
func Start(ctx context.Context, s Surface, src Source, width, height int) *Task {
	t := &Task{done: make(chan struct{})}
	if !src.Deferred() {
		t.finish(s.Render(ctx, src, width, height))
		return t
	}
	go func() { t.finish(s.Render(ctx, src, width, height)) }()
	return t
}

func (t *Task) finish(img *image.NRGBA, err error) {
	t.img, t.err = img, err
	close(t.done)
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Ready reports whether the task has finished without blocking.
func (t *Task) Ready() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (*image.NRGBA, error) {
	if t.Ready() {
		return t.img, t.err
	}
	select {
	case <-t.done:
		return t.img, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
