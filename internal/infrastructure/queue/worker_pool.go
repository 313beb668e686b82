package queue

import (
	"context"
	"sync"

	"dropzone/internal/domain/repositories"
)

type WorkerPool struct {
	JobChan chan Job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

func NewWorkerPool(workerCount int, store repositories.BlobStore) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		JobChan: make(chan Job, 100),
		cancel:  cancel,
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:      i,
			JobChan: pool.JobChan,
			Wg:      &pool.wg,
			Store:   store,
		}
		pool.wg.Add(1)
		worker.Start(ctx)
	}
	return pool
}

func (p *WorkerPool) AddJob(job Job) {
	p.JobChan <- job
}

func (p *WorkerPool) Shutdown() {
	close(p.JobChan)
	p.wg.Wait()
	p.cancel()
}
