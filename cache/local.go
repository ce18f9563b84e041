package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Local struct {
	lru *expirable.LRU[string, []byte]
}

func NewLocal(size int, ttl time.Duration) *Local {
	return &Local{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.lru.Get(key)
	return v, ok, nil
}

func (l *Local) Set(_ context.Context, key string, value []byte) error {
	l.lru.Add(key, value)
	return nil
}

func (l *Local) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		l.lru.Remove(key)
	}
	return nil
}

func (l *Local) Close() error {
	l.lru.Purge()
	return nil
}
