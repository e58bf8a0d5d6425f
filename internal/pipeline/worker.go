package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/eisbaw/rule72/internal/reflow"
)

// Worker processes batch jobs message by message. The transform itself is
// pure and cannot fail; the only abort path is context cancellation.
type Worker struct {
	log *slog.Logger
}

func NewWorker(log *slog.Logger) *Worker {
	return &Worker{log: log}
}

// Process reformats every message in the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	job.SetStatus(StatusRunning)

	for i, msg := range job.Messages {
		if err := ctx.Err(); err != nil {
			job.AddError("canceled: " + err.Error())
			job.SetStatus(StatusFailed)
			w.log.Warn("job canceled", "job_id", job.ID, "done", i, "total", len(job.Messages))
			return
		}
		job.SetResult(i, reflow.Reflow(msg, job.Options))
	}

	job.SetStatus(StatusCompleted)
	w.log.Info("job completed",
		"job_id", job.ID,
		"messages", len(job.Messages),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
