// internal/api/v1/types.go
package v1

import "time"

// History timestamps are ISO-8601 UTC with a Z suffix. The fraction is
// either absent or exactly six digits.
const (
	historyTimeLayout       = "2006-01-02T15:04:05Z"
	historyTimeLayoutMicros = "2006-01-02T15:04:05.000000Z"
)

func formatHistoryTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(historyTimeLayout)
	}
	return t.Format(historyTimeLayoutMicros)
}

// historyResponse is the API representation of a history record.
type historyResponse struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	FileFormat string `json:"file_format"`
	Quality    string `json:"quality"`
	Timestamp  string `json:"timestamp"`
}

// statusResponse is the response for GET /api/v1/status.
type statusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
