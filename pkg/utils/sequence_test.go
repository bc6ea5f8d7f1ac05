package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextSeqIncreases(t *testing.T) {
	prev := NextSeq()
	for i := 0; i < 5000; i++ {
		next := NextSeq()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestNextSeqConcurrentUnique(t *testing.T) {
	const (
		goroutines = 16
		perRoutine = 2000
	)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{}, goroutines*perRoutine)
	)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perRoutine)
			for i := 0; i < perRoutine; i++ {
				local = append(local, NextSeq())
			}
			mu.Lock()
			for _, id := range local {
				ids[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, goroutines*perRoutine)
}

func TestGenerateInvoiceNo(t *testing.T) {
	no := GenerateInvoiceNo("INV")
	require.Len(t, no, len("INV-")+8)
	require.Equal(t, "INV-", no[:4])
}
