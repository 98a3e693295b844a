package memo_test

import (
	"fmt"
	"time"

	"github.com/goforj/memo"
)

func ExampleNew() {
	c := memo.New[string, int]()
	calculate := func(key string) (int, error) {
		fmt.Println("Calculating value for key:", key)
		return len(key), nil
	}

	result1, _ := c.GetOrCompute("key1", calculate, 5*time.Second)
	result2, _ := c.GetOrCompute("key1", calculate, 5*time.Second)

	fmt.Println("Result 1:", result1)
	fmt.Println("Result 2 (from cache):", result2)
	// Output:
	// Calculating value for key: key1
	// Result 1: 4
	// Result 2 (from cache): 4
}

func ExampleNewSync() {
	c := memo.NewSync(memo.NewWithStore(memo.NewOtterStore[int, string]()))
	v, err := c.GetOrCompute(7, func(n int) (string, error) {
		return fmt.Sprintf("item-%d", n), nil
	}, time.Minute)
	fmt.Println(v, err, c.Driver())
	// Output: item-7 <nil> otter
}
