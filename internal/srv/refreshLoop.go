package srv

import (
	"context"
	"time"

	"github.com/jypelle/oledstat/internal/srv/frame"
	"github.com/sirupsen/logrus"
)

// Run refreshes the display every refresh interval until ctx is done, then
// clears it. Clear is always the last display operation.
func (s *ServerApp) Run(ctx context.Context) {
	logrus.Infof("Start refresh loop (every %v)", s.RefreshInterval)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for loop := true; loop; {
		select {
		case <-ctx.Done():
			loop = false
		case <-timer.C:
			if ctx.Err() != nil {
				loop = false
				continue
			}
			f := s.refreshFrame(ctx)
			if ctx.Err() != nil {
				loop = false
				continue
			}
			s.showFrame(f)
			timer.Reset(s.RefreshInterval)
		}
	}

	logrus.Infof("Refresh loop stopped")
	s.clearDisplay()
}

// refreshFrame fetches every panel and composes the frame. It keeps no state
// between calls.
func (s *ServerApp) refreshFrame(ctx context.Context) frame.DisplayFrame {
	blocks := make([]frame.Block, 0, len(s.panels))
	for _, p := range s.panels {
		if ctx.Err() != nil {
			break
		}
		blocks = append(blocks, p.block(ctx))
	}
	return frame.Compose(s.DisplayParam.MaxLines, blocks...)
}

func (s *ServerApp) showFrame(f frame.DisplayFrame) {
	logrus.Debugf("Display frame: %q", f.Lines)

	s.surface.Erase()
	for i, line := range f.Lines {
		s.surface.DrawText(0, i*s.DisplayParam.LineHeight, line)
	}
	if err := s.surface.Present(); err != nil {
		logrus.Warnf("Unable to refresh display: %v", err)
		return
	}

	s.metrics.FrameRendered()
	if s.apiDevice != nil {
		s.apiDevice.SetFrame(f, time.Now())
	}
}

func (s *ServerApp) clearDisplay() {
	logrus.Infof("Clear display")
	if err := s.surface.Clear(); err != nil {
		logrus.Warnf("Unable to clear display: %v", err)
	}
}
