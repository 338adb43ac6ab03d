package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewOperationID returns a fresh operation id. The unix-seconds component
// keeps ids lexically ordered by creation time; the uuid fragment
// disambiguates operations created within the same second.
func NewOperationID(now time.Time) string {
	return fmt.Sprintf("op_%d_%s", now.Unix(), uuid.NewString()[:8])
}
