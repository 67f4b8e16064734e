package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// theBoss is used to orchestrate the minions that run the parallel loops of a process
type theBoss struct {
	info       *Info           // the runtime info for the pipeline
	ctx        context.Context // cancels unstarted iterations once a minion fails
	iterations int             // the number of iterations the minions completed during the boss's lifetime
	sync.Mutex                 // allows minions to update the Boss's count
}

// newBoss will initialise and return theBoss
func newBoss(ctx context.Context, runtimeInfo *Info) *theBoss {
	return &theBoss{
		info: runtimeInfo,
		ctx:  ctx,
	}
}

// runMinions calls work(i) for every i in [0, n) on up to NumProc minions. Each iteration must
// only write to its own slot of any shared output. The first error stops the loop: iterations
// already running finish, the rest are skipped and the error is returned.
func (theBoss *theBoss) runMinions(phase string, n int, work func(i int) error) error {
	obs := theBoss.info.Observer()
	obs.Start(phase, n)
	defer obs.Done()

	g, ctx := errgroup.WithContext(theBoss.ctx)
	g.SetLimit(max(1, theBoss.info.NumProc))
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := work(i); err != nil {
				return err
			}
			obs.Step()
			theBoss.Lock()
			theBoss.iterations++
			theBoss.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return theBoss.ctx.Err()
}

// completed returns the number of iterations run so far
func (theBoss *theBoss) completed() int {
	theBoss.Lock()
	defer theBoss.Unlock()
	return theBoss.iterations
}
