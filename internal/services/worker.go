package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/basappa1234/resume-screening-agent/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueSession(sessionID uuid.UUID)
}

type worker struct {
	screeningRepo   repositories.ScreeningRepository
	screenerService ScreenerService
	sessionQueue    chan uuid.UUID
	concurrency     int
	pollInterval    time.Duration
	wg              sync.WaitGroup
	stopChan        chan struct{}
}

func NewWorker(
	screeningRepo repositories.ScreeningRepository,
	screenerService ScreenerService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		screeningRepo:   screeningRepo,
		screenerService: screenerService,
		sessionQueue:    make(chan uuid.UUID, 100),
		concurrency:     concurrency,
		pollInterval:    pollInterval,
		stopChan:        make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	// Start worker goroutines
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processSessions(ctx, i+1)
	}

	// Start polling for queued sessions
	w.wg.Add(1)
	go w.pollQueuedSessions(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueSession implements Worker.
func (w *worker) EnqueueSession(sessionID uuid.UUID) {
	select {
	case w.sessionQueue <- sessionID:
		log.Printf("📥 Session %s enqueued\n", sessionID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue session %s\n", sessionID)
	}
}

func (w *worker) processSessions(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing sessions\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case sessionID := <-w.sessionQueue:
			// A session can reach the queue twice (submit handler plus
			// poller); the claim moves it to processing atomically so
			// only one worker screens it.
			claimed, err := w.screeningRepo.ClaimSession(sessionID)
			if err != nil {
				log.Printf("⚠️  Worker #%d failed to claim session %s: %v\n", workerID, sessionID, err)
				continue
			}
			if !claimed {
				log.Printf("👷 Worker #%d skipping session %s (already claimed)\n", workerID, sessionID)
				continue
			}

			log.Printf("👷 Worker #%d processing session %s\n", workerID, sessionID)
			if err := w.screenerService.ScreenSession(ctx, sessionID); err != nil {
				log.Printf("❌ Worker #%d failed to process session %s: %v\n", workerID, sessionID, err)
			} else {
				log.Printf("✅ Worker #%d completed session %s\n", workerID, sessionID)
			}
		}
	}
}

// pollQueuedSessions re-enqueues sessions still marked queued, so sessions
// submitted before a restart are not lost.
func (w *worker) pollQueuedSessions(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting queued sessions poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Queued sessions poller stopped")
			return
		case <-ticker.C:
			pending, err := w.screeningRepo.FindPendingSessions(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch queued sessions: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d queued sessions\n", len(pending))
			}

			for _, session := range pending {
				w.EnqueueSession(session.ID)
			}
		}
	}
}
