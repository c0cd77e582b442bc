// Package event 进程内事件订阅
package event

import (
	"slices"
	"sync"
)

// Bus 同步分发 T 类型事件。订阅由组合根创建的 Bus 持有，不存在全局实例。
type Bus[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]func(T)
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{handlers: make(map[uint64]func(T))}
}

// Subscribe 注册回调，返回的函数用于取消订阅，可重复调用
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish 按订阅顺序调用回调
func (b *Bus[T]) Publish(evt T) {
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	handlers := make([]func(T), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(evt)
	}
}

// Len 当前订阅数
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// FavouriteChanged 收藏状态变化
type FavouriteChanged struct {
	MovieID   int
	Favourite bool
}
