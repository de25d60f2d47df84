package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/grid/pkg/store"
)

const (
	// DirName is the directory under the store base path holding messages.
	DirName = "channel"
	// DefaultRetention is how long message files are kept.
	DefaultRetention = time.Minute

	messageExt = ".json"
)

// FileChannel exchanges messages as small JSON files in a shared directory.
// Listeners watch the directory and decode files as they appear.
type FileChannel struct {
	dir       string
	d         *diskv.Diskv
	origin    string
	retention time.Duration
	throttle  time.Duration
	now       func() time.Time
	log       *zap.Logger

	seq    atomic.Uint64
	closed atomic.Bool
	pruneM sync.Mutex
}

var _ Channel = (*FileChannel)(nil)

// Option customises a FileChannel.
type Option func(*FileChannel)

// WithRetention sets how long message files survive before pruning.
func WithRetention(d time.Duration) Option {
	return func(c *FileChannel) {
		if d > 0 {
			c.retention = d
		}
	}
}

// WithLogger routes channel diagnostics to log.
func WithLogger(log *zap.Logger) Option {
	return func(c *FileChannel) {
		if log != nil {
			c.log = log
		}
	}
}

// WithOrigin fixes the origin id instead of generating one.
func WithOrigin(origin string) Option {
	return func(c *FileChannel) {
		if origin != "" {
			c.origin = origin
		}
	}
}

// WithClock overrides the time source used to stamp and prune messages.
func WithClock(now func() time.Time) Option {
	return func(c *FileChannel) {
		if now != nil {
			c.now = now
		}
	}
}

// WithThrottle sets how long filesystem bursts are coalesced.
func WithThrottle(d time.Duration) Option {
	return func(c *FileChannel) {
		if d > 0 {
			c.throttle = d
		}
	}
}

// NewFileChannel opens the message directory below base.
func NewFileChannel(base string, opts ...Option) (*FileChannel, error) {
	if base == "" {
		return nil, fmt.Errorf("broadcast: base path unknown")
	}
	dir := filepath.Join(base, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("broadcast: ensure channel directory: %w", err)
	}
	c := &FileChannel{
		dir: dir,
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			TempDir:      filepath.Join(dir, ".tmp"),
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 0,
		}),
		origin:    strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		retention: DefaultRetention,
		throttle:  store.DefaultThrottle,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Origin returns the id stamped on every message this channel sends.
func (c *FileChannel) Origin() string {
	return c.origin
}

// Dir returns the message directory.
func (c *FileChannel) Dir() string {
	return c.dir
}

// Broadcast stamps m with this channel's origin and writes it for listeners.
func (c *FileChannel) Broadcast(ctx context.Context, m Message) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Origin = c.origin
	m.Sent = c.now()
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("broadcast: encode message: %w", err)
	}
	key := fmt.Sprintf("%020d-%s-%d%s", m.Sent.UnixNano(), c.origin, c.seq.Add(1), messageExt)
	if err := c.d.Write(key, data); err != nil {
		return fmt.Errorf("broadcast: write message: %w", err)
	}
	c.log.Debug("broadcast", zap.String("type", string(m.Type)), zap.String("id", m.Data.ID))
	c.prune(ctx)
	return nil
}

// Listen streams messages written after the call, oldest first, until ctx is
// cancelled. Messages from every origin are delivered, including this one.
func (c *FileChannel) Listen(ctx context.Context) (<-chan Message, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	events, err := store.WatchDir(ctx, c.dir, c.throttle, c.log)
	if err != nil {
		return nil, fmt.Errorf("broadcast: %w", err)
	}
	since := c.now().UnixNano()
	out := make(chan Message, 16)

	go func() {
		defer close(out)
		seen := make(map[string]int64)
		for range events {
			for _, key := range c.keys(ctx) {
				stamp, ok := keyStamp(key)
				if !ok || stamp < since {
					continue
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = stamp
				m, ok := c.read(key)
				if !ok {
					continue
				}
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			}
			c.forget(seen)
		}
	}()
	return out, nil
}

// Close stops further broadcasts. Running listeners end with their context.
func (c *FileChannel) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *FileChannel) read(key string) (Message, bool) {
	data, err := c.d.Read(key)
	if err != nil {
		// Pruned between the directory scan and the read.
		return Message{}, false
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		c.log.Warn("malformed broadcast message", zap.String("key", key), zap.Error(err))
		return Message{}, false
	}
	if !m.Type.Valid() {
		c.log.Debug("unknown broadcast type", zap.String("type", string(m.Type)))
		return Message{}, false
	}
	return m, true
}

// keys returns the message keys sorted oldest first.
func (c *FileChannel) keys(ctx context.Context) []string {
	var keys []string
	for key := range c.d.Keys(ctx.Done()) {
		if _, ok := keyStamp(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (c *FileChannel) prune(ctx context.Context) {
	c.pruneM.Lock()
	defer c.pruneM.Unlock()
	cutoff := c.now().Add(-c.retention).UnixNano()
	for _, key := range c.keys(ctx) {
		stamp, _ := keyStamp(key)
		if stamp >= cutoff {
			break
		}
		if err := c.d.Erase(key); err != nil {
			c.log.Debug("prune message", zap.String("key", key), zap.Error(err))
		}
	}
}

func (c *FileChannel) forget(seen map[string]int64) {
	cutoff := c.now().Add(-2 * c.retention).UnixNano()
	for key, stamp := range seen {
		if stamp < cutoff {
			delete(seen, key)
		}
	}
}

// keyStamp extracts the send time from a message file name.
func keyStamp(key string) (int64, bool) {
	if !strings.HasSuffix(key, messageExt) {
		return 0, false
	}
	head, _, ok := strings.Cut(key, "-")
	if !ok {
		return 0, false
	}
	stamp, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return 0, false
	}
	return stamp, true
}
