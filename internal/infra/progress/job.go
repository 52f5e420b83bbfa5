package progress

import (
	"context"
	"errors"
	"time"
)

var ErrJobNotFound = errors.New("importação não encontrada")

type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// ImportJob é o estado de uma importação assíncrona, consultado pela UI
// enquanto o worker grava os lotes.
type ImportJob struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"`
	Total     int       `json:"total"`
	Added     int       `json:"added"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *ImportJob) Finished() bool {
	return j.Status == JobDone || j.Status == JobFailed
}

type Store interface {
	Save(ctx context.Context, job *ImportJob) error
	Get(ctx context.Context, id string) (*ImportJob, error)
}

// Tracker liga um job ao laço de lotes: cada lote concluído atualiza o
// percentual guardado no Store.
type Tracker struct {
	store Store
	job   *ImportJob
	now   func() time.Time
	onErr func(error)
}

func NewTracker(store Store, job *ImportJob, onErr func(error)) *Tracker {
	return &Tracker{store: store, job: job, now: time.Now, onErr: onErr}
}

func (t *Tracker) Start(ctx context.Context) error {
	t.job.Status = JobRunning
	t.job.Progress = 0
	return t.save(ctx)
}

func (t *Tracker) BatchCompleted(percent int) {
	t.job.Progress = percent
	if err := t.save(context.Background()); err != nil && t.onErr != nil {
		t.onErr(err)
	}
}

// Finish encerra o job. O percentual vai a 100 nos dois desfechos.
func (t *Tracker) Finish(ctx context.Context, added int, runErr error) error {
	t.job.Progress = 100
	t.job.Added = added
	if runErr != nil {
		t.job.Status = JobFailed
		t.job.Error = runErr.Error()
	} else {
		t.job.Status = JobDone
	}
	return t.save(ctx)
}

func (t *Tracker) Job() *ImportJob {
	return t.job
}

func (t *Tracker) save(ctx context.Context) error {
	t.job.UpdatedAt = t.now()
	return t.store.Save(ctx, t.job)
}
