package session

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/raksha/internal/alert"
	"github.com/ayusman/raksha/internal/detector"
	"github.com/ayusman/raksha/internal/gesture"
)

// runLoop is the per-session detection loop. One frame is driven through
// analyzer -> consensus per tick; frame N+1 never starts before frame N's
// verdict has been folded in, which keeps the rolling history in strict
// frame order.
func (s *DetectionSession) runLoop(stopCh chan struct{}, cmds chan func()) {
	interval := s.consensus.Profile().PollInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Last pixel-path verdict, reused while the activity gate reports a
	// static scene: if nothing in the frame changed, the classification
	// cannot have changed either, and the full-frame scan is skipped.
	var lastPixelVerdict gesture.FrameVerdict

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Queued control commands apply here, between frames.
			drained := false
			for !drained {
				select {
				case fn := <-cmds:
					fn()
				default:
					drained = true
				}
			}

			if next := s.consensus.Profile().PollInterval; next != interval {
				interval = next
				ticker.Reset(interval)
			}

			s.step(&lastPixelVerdict)
		}
	}
}

// step processes exactly one frame.
func (s *DetectionSession) step(lastPixelVerdict *gesture.FrameVerdict) {
	frame, err := s.camera.ReadFrame()
	if err != nil {
		// An unavailable frame source is an immediate negative verdict,
		// never an error that stops the loop.
		s.consensus.Consume(gesture.FrameVerdict{})
		return
	}
	defer frame.Close()

	var hands []detector.HandLandmarks
	var verdict gesture.FrameVerdict

	if s.det != nil {
		hands, err = s.det.Detect(frame)
		if err != nil {
			log.Printf("landmark detection failed: %v", err)
			hands = nil
		}
		if len(hands) > 0 {
			verdict = s.geometry.Analyze(hands[0].Points[:])
		}
		// No hand this frame leaves the zero verdict: stale positives
		// must not survive a tracking dropout.
	} else {
		if s.gate != nil {
			if active, _ := s.gate.Check(frame); !active {
				verdict = *lastPixelVerdict
				s.finish(frame, hands, verdict)
				return
			}
		}

		img, convErr := frame.ToImage()
		if convErr != nil {
			log.Printf("frame decode failed: %v", convErr)
			verdict = gesture.FrameVerdict{}
		} else {
			verdict = s.pixel.Analyze(img)
		}
		*lastPixelVerdict = verdict
	}

	s.finish(frame, hands, verdict)
}

// finish folds the verdict into consensus and, on a rising edge, captures
// evidence from the same frame and emits exactly one alert.
func (s *DetectionSession) finish(frame *gocv.Mat, hands []detector.HandLandmarks, verdict gesture.FrameVerdict) {
	decision := s.consensus.Consume(verdict)
	if !decision.Triggered {
		return
	}

	img := s.capturer.Capture(frame, hands, gesture.GestureVictory)
	a := alert.New(alert.TypeVictory, decision.Confidence, img, s.location)
	s.publish(a)
	log.Printf("victory sign detected (confidence %.2f), alert %s emitted", decision.Confidence, a.ID)
}
