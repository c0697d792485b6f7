package parallel

import "sync"

// ForEachErr executes a for loop with a limited number of concurrent goroutines,
// where each iteration can fail. The first error stops dispatch of further
// iterations; already running iterations are allowed to finish. The first error
// in iteration order is returned.
func ForEachErr(length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1 // Default to 1 if limit is zero or negative
	}
	if length <= 0 {
		return nil // No iterations to perform
	}

	sem := make(chan struct{}, limit) // Semaphore with buffer size 'limit'
	var wg sync.WaitGroup

	var mut sync.Mutex
	var firstErr error
	var firstIdx int
	failed := false

	for i := 0; i < length; i++ {
		mut.Lock()
		stop := failed
		mut.Unlock()
		if stop {
			break
		}

		sem <- struct{}{} // Acquire semaphore
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore after function exits

			if err := body(i); err != nil {
				mut.Lock()
				if !failed || i < firstIdx {
					firstErr = err
					firstIdx = i
				}
				failed = true
				mut.Unlock()
			}
		}(i)
	}

	wg.Wait() // Wait for all goroutines to finish
	return firstErr
}
