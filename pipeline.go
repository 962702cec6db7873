package rubberband

import "sync"

// task runs fn over data split in contiguous chunks, one goroutine per chunk.
// fn must only touch its own element.
func task[T any](workersCount int, data []T, fn func(data T)) {
	workersCount = max(DEFAULT_WORKERS, workersCount)
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, end)
	}
	wg.Wait()
}
