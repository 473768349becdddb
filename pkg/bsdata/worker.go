package bsdata

import "github.com/alitto/pond/v2"

// forEach calls fn for every index in [0, n) using at most workers goroutines.
// fn must only write state owned by its index.
func forEach(workers, n int, fn func(i int)) error {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return nil
	}
	pool := pond.NewPool(min(workers, n))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for i := 0; i < n; i++ {
		group.Submit(func() {
			fn(i)
		})
	}
	return group.Wait()
}
