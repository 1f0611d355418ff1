package seed

import "github.com/uniedit/seeder/internal/model"

// State is the migration run state.
type State string

const (
	StateNotStarted    State = "not_started"
	StateTablePending  State = "table_pending"
	StateAlreadySeeded State = "already_seeded"
	StateLocked        State = "locked"
	StateSeeding       State = "seeding"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// IsNoop reports whether the run ended without touching the database.
func (s State) IsNoop() bool {
	return s == StateTablePending || s == StateAlreadySeeded || s == StateLocked
}

// Item outcomes recorded per seed item.
const (
	OutcomePublished     = "published"
	OutcomeNoImage       = "no_image"
	OutcomeFetchFailed   = "fetch_failed"
	OutcomePublishFailed = "publish_failed"
)

// Result summarises a migration run.
type Result struct {
	State         State
	Created       int
	ImageFailures int
	Banners       []*model.Banner
}
