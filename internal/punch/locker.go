package punch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockTimeout is returned when another request holds the key for longer
// than the caller is willing to wait.
var ErrLockTimeout = errors.New("punch lock wait timed out")

// Locker serializes the dedup check and insert for one employee and punch type.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// LocalLocker is an in-process keyed mutex. It only serializes requests
// served by the same process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			l.release(key, kl)
		})
	}, nil
}

func (l *LocalLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker shares the lock across API instances through SET NX. While a
// holder keeps the lock, its TTL is pushed forward every refresh interval so
// a slow transaction cannot outlive the lock.
type RedisLocker struct {
	rdb     redis.Cmdable
	ttl     time.Duration
	refresh time.Duration
	retry   time.Duration
	wait    time.Duration
	logger  *zap.Logger
}

func NewRedisLocker(rdb redis.Cmdable, logger ...*zap.Logger) *RedisLocker {
	l := zap.L().Named("punch.locker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("punch.locker")
	}
	return &RedisLocker{
		rdb:     rdb,
		ttl:     10 * time.Second,
		refresh: 3 * time.Second,
		retry:   50 * time.Millisecond,
		wait:    3 * time.Second,
		logger:  l,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:" + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.rdb.SetNX(waitCtx, lockKey, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return nil, ErrLockTimeout
			}
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(lockKey, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			// the request context may already be cancelled
			unlockCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := unlockScript.Run(unlockCtx, l.rdb, []string{lockKey}, token).Err(); err != nil {
				l.logger.Warn("release punch lock failed", zap.String("key", lockKey), zap.Error(err))
			}
		})
	}, nil
}

func (l *RedisLocker) keepAlive(lockKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	if l.refresh <= 0 {
		return
	}
	ticker := time.NewTicker(l.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			held, err := l.extend(lockKey, token)
			if err != nil {
				l.logger.Warn("extend punch lock failed", zap.String("key", lockKey), zap.Error(err))
				continue
			}
			if !held {
				l.logger.Error("punch lock lost before release", zap.String("key", lockKey))
				return
			}
		}
	}
}

// extend resets the TTL when token still owns lockKey and reports ownership.
func (l *RedisLocker) extend(lockKey, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, err := extendScript.Run(ctx, l.rdb, []string{lockKey}, token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
