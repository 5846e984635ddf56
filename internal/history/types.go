// Observation rows with greptime tags
package history

import (
	"os"
	"time"
)

// Row is one observed player status, one per player per run.
type Row struct {
	RunID     string    `json:"run_id"`   // TAG
	Player    string    `json:"player"`   // TAG
	Status    string    `json:"status"`   // FIELD
	MatchID   string    `json:"match_id"` // FIELD
	Changed   bool      `json:"changed"`  // FIELD
	Timestamp time.Time `json:"ts"`       // TIME INDEX
}

// ObservationTableName holds the table name used when writing to
// GreptimeDB. It defaults to "player_observations" but can be overridden
// via the GREPTIMEDB_TABLE environment variable.
var ObservationTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "player_observations"
}()

func (Row) TableName() string {
	return ObservationTableName
}

// Writer persists observation rows.
type Writer interface {
	Write(Row) error
}

// Optional: writers may support batch mode.
type batchWriter interface {
	WriteBatch([]Row) error
}
