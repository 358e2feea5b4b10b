package showroom

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/logging"
)

// AutoBuildOn starts rebuilding the artifact periodically. Calling it again
// restarts the schedule.
func (p *Pipeline) AutoBuildOn() error {
	if p.options.autoBuildInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoBuildInterval",
			Value:   p.options.autoBuildInterval,
			Message: "build interval must be positive",
		}
	}

	// Stop any existing schedule before starting a new one
	if err := p.AutoBuildOff(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopCh = make(chan struct{})
	p.buildTicker = time.NewTicker(p.options.autoBuildInterval)
	ctx, cancel := context.WithCancel(context.Background())
	p.buildCancel = cancel

	go p.autoBuild(ctx, p.buildTicker.C, p.stopCh)

	return nil
}

func (p *Pipeline) autoBuild(ctx context.Context, tick <-chan time.Time, stop <-chan struct{}) {
	for {
		select {
		case <-tick:
			buildCtx, cancel := context.WithTimeout(ctx, constants.BuildTimeout)
			_, err := p.Build(buildCtx)
			cancel()

			if err != nil {
				if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
					return
				}
				logging.Error().Err(err).Msg("Auto-build failed")
			}
		case <-ctx.Done():
			return
		case <-stop:
			return
		}
	}
}

// AutoBuildOff stops periodic rebuilds. It is safe to call more than once.
func (p *Pipeline) AutoBuildOff() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buildTicker != nil {
		p.buildTicker.Stop()
		p.buildTicker = nil
	}
	if p.buildCancel != nil {
		p.buildCancel()
		p.buildCancel = nil
	}
	if p.stopCh != nil {
		select {
		case <-p.stopCh:
		default:
			close(p.stopCh)
		}
	}
	return nil
}
