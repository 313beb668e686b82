package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dropzone/internal/domain/repositories"
	"dropzone/internal/usecases"
)

type Worker struct {
	ID      int
	JobChan <-chan Job
	Wg      *sync.WaitGroup
	Store   repositories.BlobStore
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case job, ok := <-w.JobChan:
				if !ok {
					slog.Info("worker stopping, job channel closed", "worker", w.ID)
					return
				}
				if err := w.processJob(ctx, job); err != nil {
					slog.Error("job failed", "worker", w.ID, "type", job.Type, "error", err)
				} else {
					slog.Debug("job done", "worker", w.ID, "type", job.Type)
				}
			case <-ctx.Done():
				slog.Info("worker stopping, context cancelled", "worker", w.ID)
				return
			}
		}
	}()
}

func (w *Worker) processJob(ctx context.Context, job Job) error {
	switch job.Type {
	case JobReleaseChunks:
		return w.Store.DeletePrefix(ctx, usecases.SessionChunkPrefix(job.SessionID))
	case JobDeleteObject:
		return w.Store.Delete(ctx, job.ObjectKey)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
