package adjacency_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/jigsaw/internal/fixture"
	"github.com/matzehuels/jigsaw/pkg/adjacency"
)

func ExampleResolve() {
	m, err := adjacency.Resolve(context.Background(), fixture.Demo(), adjacency.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m)
	fmt.Println(m.Corners(), m.CornerProduct())
	// Output:
	// 3x3 grid: 4 corners, 4 edges, 1 interior
	// [1171 1951 2971 3079] 20899048083289
}
