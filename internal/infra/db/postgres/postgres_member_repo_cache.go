package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
	"github.com/ledvelvet/doorcheck/internal/infra/metrics"
	red "github.com/ledvelvet/doorcheck/internal/infra/redis"
)

var _ repository.MemberRepository = (*memberRepoCacheDecorator)(nil)

// memberRepoCacheDecorator caches member lookups in redis. Door scans hit
// FindByID/FindByBarcode far more often than the CMS writes members, so
// read-through caching with write invalidation is enough.
type memberRepoCacheDecorator struct {
	inner repository.MemberRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewMemberRepoCacheDecorator(inner repository.MemberRepository, cache red.RedisClient, ttl time.Duration) repository.MemberRepository {
	return &memberRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// For write operations, invalidate all possible keys for that member.
func (d *memberRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, m *model.Member) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("member:id:%s", m.ID))
	if m.LegacyBarcode != "" {
		_ = d.cache.Del(ctx, fmt.Sprintf("member:barcode:%s", m.LegacyBarcode))
	}
	return d.inner.Save(ctx, tx, m)
}

// FindByID bypasses the cache inside a transaction: the door decision
// chain must read its own consistent snapshot.
func (d *memberRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Member, error) {
	if tx != nil {
		metrics.IncCacheRequest("member", "bypass")
		return d.inner.FindByID(ctx, tx, id)
	}

	key := fmt.Sprintf("member:id:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("member", "hit")
		var m model.Member
		if json.Unmarshal([]byte(val), &m) == nil {
			return &m, nil
		}
	}

	metrics.IncCacheRequest("member", "miss")
	m, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	d.warm(ctx, m)
	return m, nil
}

func (d *memberRepoCacheDecorator) FindByBarcode(ctx context.Context, tx repository.Tx, barcode string) (*model.Member, error) {
	if tx != nil {
		metrics.IncCacheRequest("member", "bypass")
		return d.inner.FindByBarcode(ctx, tx, barcode)
	}

	key := fmt.Sprintf("member:barcode:%s", barcode)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("member", "hit")
		var m model.Member
		if json.Unmarshal([]byte(val), &m) == nil {
			return &m, nil
		}
	}

	metrics.IncCacheRequest("member", "miss")
	m, err := d.inner.FindByBarcode(ctx, tx, barcode)
	if err != nil {
		return nil, err
	}
	d.warm(ctx, m)
	return m, nil
}

// warm sets the cache for both keys so a barcode lookup also primes the
// FindByID the decision chain does right after.
func (d *memberRepoCacheDecorator) warm(ctx context.Context, m *model.Member) {
	if m == nil {
		return
	}
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	_ = d.cache.Set(ctx, fmt.Sprintf("member:id:%s", m.ID), b, d.ttl)
	if m.LegacyBarcode != "" {
		_ = d.cache.Set(ctx, fmt.Sprintf("member:barcode:%s", m.LegacyBarcode), b, d.ttl)
	}
}

// Pass-through methods that don't need caching
func (d *memberRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Member, error) {
	return d.inner.List(ctx, tx, offset, limit)
}

func (d *memberRepoCacheDecorator) CountMembers(ctx context.Context, tx repository.Tx) (int, error) {
	return d.inner.CountMembers(ctx, tx)
}

func (d *memberRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("member:id:%s", id))
	return d.inner.Delete(ctx, tx, id)
}
