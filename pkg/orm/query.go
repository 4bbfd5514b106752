// Package orm is a small fluent layer over GORM that times every query,
// translates driver errors into package sentinels and can serve reads from
// the cache.
//
//	var cats []models.Category
//	err := orm.On(db).WithContext(ctx).Order("id").
//	    Cache("catalog:categories", time.Minute, &cats)
package orm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/devburger/pkg/metrics"
)

var (
	// ErrNotFound is returned by First when no row matches.
	ErrNotFound = errors.New("orm: record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("orm: duplicate key")
)

// Cacher is what Cache needs from a cache backend.
type Cacher interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Query struct {
	db    *gorm.DB
	ctx   context.Context
	cache Cacher
}

// On starts a query on db.
func On(db *gorm.DB) *Query {
	return &Query{db: db, ctx: context.Background()}
}

func (q *Query) clone(db *gorm.DB) *Query {
	return &Query{db: db, ctx: q.ctx, cache: q.cache}
}

// WithContext binds ctx to every statement the query runs.
func (q *Query) WithContext(ctx context.Context) *Query {
	c := q.clone(q.db.WithContext(ctx))
	c.ctx = ctx
	return c
}

// WithCache sets the backend used by Cache and Forget.
func (q *Query) WithCache(c Cacher) *Query {
	n := q.clone(q.db)
	n.cache = c
	return n
}

func (q *Query) Model(v interface{}) *Query {
	return q.clone(q.db.Model(v))
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return q.clone(q.db.Where(query, args...))
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	return q.clone(q.db.Preload(query, args...))
}

func (q *Query) Order(value interface{}) *Query {
	return q.clone(q.db.Order(value))
}

// Omit skips columns or associations on writes.
func (q *Query) Omit(columns ...string) *Query {
	return q.clone(q.db.Omit(columns...))
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return translate(q.db.Find(dest).Error)
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return translate(q.db.First(dest).Error)
}

// Exists reports whether any row matches the current conditions.
func (q *Query) Exists() (bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	if err := q.db.Limit(1).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return translate(q.db.Create(v).Error)
}

func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return translate(q.db.Save(v).Error)
}

// Cache serves dest from the cache when possible and fills it otherwise.
// Without a backend it is a plain Get.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if q.cache != nil && q.cache.Get(q.ctx, key, dest) {
		return nil
	}

	if err := q.Get(dest); err != nil {
		return err
	}

	if q.cache != nil {
		_ = q.cache.Set(q.ctx, key, dest, ttl)
	}
	return nil
}

// Forget drops cached keys.
func (q *Query) Forget(keys ...string) error {
	if q.cache == nil {
		return nil
	}
	return q.cache.Del(q.ctx, keys...)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
