package worker

import (
	"context"
	"log"
	"sync"
)

// WorkerService manages background workers for the application
type WorkerService struct {
	poller  *MetricsPoller
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
}

// NewWorkerService creates a new worker service around the metrics poller
func NewWorkerService(poller *MetricsPoller) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerService{
		poller: poller,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	log.Println("Starting background workers...")

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		ws.poller.Run(ws.ctx)
	}()

	ws.running = true
	log.Println("Background workers started successfully")
	return nil
}

// Stop stops all background workers and waits for them to finish
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return // Not running
	}

	log.Println("Stopping background workers...")
	ws.cancel()
	ws.wg.Wait()
	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}
