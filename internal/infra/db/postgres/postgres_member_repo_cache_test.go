//go:build !integration

// File: internal/infra/db/postgres/postgres_member_repo_cache_test.go
package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledvelvet/doorcheck/internal/domain"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
	"github.com/ledvelvet/doorcheck/internal/domain/ports/repository"
)

// fakeRedis is an in-memory stand-in for the redis client.
type fakeRedis struct {
	store map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: make(map[string]string)}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case string:
		f.store[key] = v
	case []byte:
		f.store[key] = string(v)
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.store[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return v, nil
}

func (f *fakeRedis) Incr(ctx context.Context, key string) (int64, error) { return 1, nil }

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

func (f *fakeRedis) FlushDB(ctx context.Context) error {
	f.store = make(map[string]string)
	return nil
}

func (f *fakeRedis) Close() error { return nil }

// countingMemberRepo counts how often the database layer gets hit.
type countingMemberRepo struct {
	repository.MemberRepository // Embed interface for forward compatibility
	member                      *model.Member
	findByIDCalls               int
	findByBarcodeCalls          int
}

func (c *countingMemberRepo) Save(ctx context.Context, tx repository.Tx, m *model.Member) error {
	cp := *m
	c.member = &cp
	return nil
}

func (c *countingMemberRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Member, error) {
	c.findByIDCalls++
	if c.member == nil || c.member.ID != id {
		return nil, domain.ErrNotFound
	}
	cp := *c.member
	return &cp, nil
}

func (c *countingMemberRepo) FindByBarcode(ctx context.Context, tx repository.Tx, barcode string) (*model.Member, error) {
	c.findByBarcodeCalls++
	if c.member == nil || c.member.LegacyBarcode != barcode {
		return nil, domain.ErrNotFound
	}
	cp := *c.member
	return &cp, nil
}

func TestMemberRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	member := &model.Member{ID: "mem-1", FirstName: "Ada", LastName: "Veldt", Legacy: true, LegacyBarcode: "12345678"}

	t.Run("second FindByID is served from cache", func(t *testing.T) {
		inner := &countingMemberRepo{member: member}
		repo := NewMemberRepoCacheDecorator(inner, newFakeRedis(), time.Minute)

		for i := 0; i < 3; i++ {
			got, err := repo.FindByID(ctx, repository.NoTX, "mem-1")
			if err != nil {
				t.Fatalf("find %d: %v", i, err)
			}
			if got.ID != "mem-1" {
				t.Fatalf("wrong member: %+v", got)
			}
		}
		if inner.findByIDCalls != 1 {
			t.Errorf("expected 1 database hit, got %d", inner.findByIDCalls)
		}
	})

	t.Run("barcode lookup primes the id key too", func(t *testing.T) {
		inner := &countingMemberRepo{member: member}
		repo := NewMemberRepoCacheDecorator(inner, newFakeRedis(), time.Minute)

		if _, err := repo.FindByBarcode(ctx, repository.NoTX, "12345678"); err != nil {
			t.Fatalf("find by barcode: %v", err)
		}
		if _, err := repo.FindByID(ctx, repository.NoTX, "mem-1"); err != nil {
			t.Fatalf("find by id: %v", err)
		}
		if inner.findByIDCalls != 0 {
			t.Errorf("expected the id lookup to be cache-served, got %d database hits", inner.findByIDCalls)
		}
	})

	t.Run("save invalidates cached entries", func(t *testing.T) {
		inner := &countingMemberRepo{member: member}
		repo := NewMemberRepoCacheDecorator(inner, newFakeRedis(), time.Minute)

		if _, err := repo.FindByID(ctx, repository.NoTX, "mem-1"); err != nil {
			t.Fatalf("warm: %v", err)
		}

		updated := *member
		updated.FirstName = "Adelaide"
		if err := repo.Save(ctx, repository.NoTX, &updated); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := repo.FindByID(ctx, repository.NoTX, "mem-1")
		if err != nil {
			t.Fatalf("find after save: %v", err)
		}
		if got.FirstName != "Adelaide" {
			t.Errorf("expected the updated member, got %q", got.FirstName)
		}
		if inner.findByIDCalls != 2 {
			t.Errorf("expected the post-save read to hit the database, got %d hits", inner.findByIDCalls)
		}
	})

	t.Run("reads inside a transaction bypass the cache", func(t *testing.T) {
		inner := &countingMemberRepo{member: member}
		cache := newFakeRedis()
		repo := NewMemberRepoCacheDecorator(inner, cache, time.Minute)

		if _, err := repo.FindByID(ctx, struct{}{}, "mem-1"); err != nil {
			t.Fatalf("find in tx: %v", err)
		}
		if inner.findByIDCalls != 1 {
			t.Errorf("expected a database hit, got %d", inner.findByIDCalls)
		}
		if len(cache.store) != 0 {
			t.Error("expected no cache writes from a transactional read")
		}
	})
}
