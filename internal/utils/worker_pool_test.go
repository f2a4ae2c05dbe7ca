package utils

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_ExecutesSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(4, 16)
	pool.Start()
	defer pool.Stop()

	var counter int64
	var wg sync.WaitGroup
	jobs := 32
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
	}
	wg.Wait()

	assert.Equal(t, int64(jobs), atomic.LoadInt64(&counter))
}

func TestWorkerPool_RecoversFromPanic(t *testing.T) {
	pool := NewWorkerPool(1, 4)
	pool.Start()
	defer pool.Stop()

	done := make(chan struct{})
	pool.Submit(func() {
		panic("boom")
	})
	// panic 之后同一个 worker 还能继续处理任务
	pool.Submit(func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestInitGlobalWorkerPool_Once(t *testing.T) {
	InitGlobalWorkerPool(2, 8)
	require.NotNil(t, GlobalWorkerPool)
	first := GlobalWorkerPool

	// 重复初始化不会替换已有的池
	InitGlobalWorkerPool(8, 64)
	assert.Same(t, first, GlobalWorkerPool)
}
