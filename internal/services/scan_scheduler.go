package services

import (
	"context"
	"fmt"
	"log"
	"route-consolidation-service/internal/ports"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultScanInterval = 5 * time.Minute

// ScanScheduler runs the at-risk scan on a fixed interval.
//
// At most one scan executes at a time: a trigger that arrives while a scan
// is running joins that scan instead of starting another. Stop lets the
// in-flight scan finish and prevents further runs.
type ScanScheduler struct {
	scanner   *AtRiskScanner
	alerts    ports.AlertStore
	publisher ports.AlertPublisher
	interval  time.Duration
	window    int

	group singleflight.Group

	mu       sync.Mutex
	started  bool
	stopChan chan struct{}
	done     chan struct{}
}

func NewScanScheduler(
	scanner *AtRiskScanner,
	alerts ports.AlertStore,
	publisher ports.AlertPublisher,
	interval time.Duration,
	windowMinutes int,
) *ScanScheduler {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	if windowMinutes <= 0 {
		windowMinutes = DefaultRiskWindowMinutes
	}
	return &ScanScheduler{
		scanner:   scanner,
		alerts:    alerts,
		publisher: publisher,
		interval:  interval,
		window:    windowMinutes,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the scheduling loop. Calling Start twice is a no-op.
// Cancelling ctx ends the loop after the in-flight scan completes.
func (s *ScanScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.run(ctx)
}

// Stop prevents further scans and waits for an in-flight scan to finish.
func (s *ScanScheduler) Stop() {
	s.mu.Lock()
	started := s.started
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.mu.Unlock()

	if started {
		<-s.done
	}
}

func (s *ScanScheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A stop or cancellation that raced with the tick wins.
			select {
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			default:
			}
			// The scan runs to completion even if ctx is cancelled mid-way.
			if _, err := s.RunNow(context.WithoutCancel(ctx)); err != nil {
				log.Printf("op=scheduler.scan err=%v", err)
			}
		}
	}
}

// RunNow performs a scan immediately, or waits for and returns the result of
// the scan already in progress.
func (s *ScanScheduler) RunNow(ctx context.Context) (ScanResult, error) {
	v, err, _ := s.group.Do("scan", func() (any, error) {
		return s.scanAndPublish(ctx)
	})
	if err != nil {
		return ScanResult{}, err
	}
	return v.(ScanResult), nil
}

func (s *ScanScheduler) scanAndPublish(ctx context.Context) (ScanResult, error) {
	res, err := s.scanner.Scan(ctx, s.window)
	if err != nil {
		return ScanResult{}, fmt.Errorf("scheduled scan: %w", err)
	}

	for _, f := range res.Failures {
		log.Printf("op=scheduler.scan parcel_id=%s err=%v", f.ParcelID, f.Err)
	}

	if s.alerts != nil {
		if err := s.alerts.ReplaceActive(ctx, res.Alerts); err != nil {
			log.Printf("op=scheduler.store_alerts err=%v", err)
		}
	}

	if s.publisher != nil {
		for _, a := range res.Alerts {
			if err := s.publisher.PublishAlert(ctx, a); err != nil {
				log.Printf("op=scheduler.publish_alert parcel_id=%s err=%v", a.ParcelID, err)
			}
		}
		for _, b := range res.Breaches {
			if err := s.publisher.PublishBreach(ctx, b); err != nil {
				log.Printf("op=scheduler.publish_breach parcel_id=%s err=%v", b.ParcelID, err)
			}
		}
	}

	log.Printf(
		"op=scheduler.scan scanned=%d alerts=%d breaches=%d failures=%d",
		res.Scanned, len(res.Alerts), len(res.Breaches), len(res.Failures),
	)
	return res, nil
}
