// allocplot renders charts from the result files of the allocation benchmark.
package main

import "github.com/dfsalloc/allocplot/internal/cli"

func main() {
	cli.Execute()
}
