package movegen_test

import (
	"fmt"

	"github.com/katalvlaran/cvrp/movegen"
)

// ExampleTwin shows the paired layout of directed move generators: the two
// directions of an edge live at adjacent indices and convert with Twin and
// Base.
func ExampleTwin() {
	index := 6 // some (i, j)

	fmt.Println(movegen.Twin(index))               // its (j, i)
	fmt.Println(movegen.Base(movegen.Twin(index))) // shared base
	fmt.Println(movegen.Twin(movegen.Twin(index)) == index)
	// Output:
	// 7
	// 6
	// true
}
