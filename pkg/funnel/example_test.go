package funnel_test

import (
	"fmt"

	"github.com/matzehuels/funnelchart/pkg/funnel"
)

func ExampleBuild() {
	in, err := funnel.ParseTable([][]string{
		{"Stage", "Candidates"},
		{"Applied", "100"},
		{"Interviewed", "60"},
		{"Hired", "40"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	chart, err := funnel.Build(in, funnel.Config{Width: 400, Height: 200, BottomPercent: 0.25})
	if err != nil {
		fmt.Println(err)
		return
	}

	segs, err := chart.Segments()
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range segs {
		fmt.Printf("%-12s share=%.2f area=%.0f color=%s\n", s.Label, s.Share, s.Trapezoid.Area(), s.Color)
	}
	// Output:
	// Applied      share=0.50 area=25000 color=#1f77b4
	// Interviewed  share=0.30 area=15000 color=#ff7f0e
	// Hired        share=0.20 area=10000 color=#2ca02c
}

func ExampleSolveNextBase() {
	next, err := funnel.SolveNextBase(10, 4, 75)
	fmt.Println(next, err)

	_, err = funnel.SolveNextBase(10, 0.01, 100)
	fmt.Println(err != nil)
	// Output:
	// 5 <nil>
	// true
}
