package storage

import (
	"context"
	"sync"
)

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Executor 在单个 goroutine 上依次执行存储操作，所有 DataSource 共用一个
type Executor struct {
	jobs      chan job
	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewExecutor() *Executor {
	e := &Executor{
		jobs: make(chan job),
		quit: make(chan struct{}),
	}
	e.wg.Add(1)
	go e.loop()
	return e
}

func (e *Executor) loop() {
	defer e.wg.Done()
	for {
		select {
		case j := <-e.jobs:
			// 排队期间被取消的操作不再执行
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			j.done <- j.fn(j.ctx)
		case <-e.quit:
			return
		}
	}
}

// Do 提交 fn 并等待其完成。fn 一旦开始执行，调用方取消也会等它结束。
func (e *Executor) Do(ctx context.Context, fn func(context.Context) error) error {
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case e.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quit:
		return ErrContextUnavailable
	}
	return <-j.done
}

// Close 停止执行循环，之后的 Do 返回 ErrContextUnavailable
func (e *Executor) Close() {
	e.closeOnce.Do(func() { close(e.quit) })
	e.wg.Wait()
}
