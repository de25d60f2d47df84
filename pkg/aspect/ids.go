package aspect

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// AspectPrefix prefixes generated aspect ids.
	AspectPrefix = "aspect"
	// EntryPrefix prefixes generated entry ids.
	EntryPrefix = "entry"
)

// IDSource hands out new record ids.
type IDSource interface {
	NewID(prefix string) string
}

// RandomIDs builds ids from the current unix milliseconds and a random
// suffix. Collisions are not defended against.
type RandomIDs struct {
	Now func() time.Time
}

// NewID implements IDSource.
func (r RandomIDs) NewID(prefix string) string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s", prefix, now().UnixMilli(), suffix)
}
