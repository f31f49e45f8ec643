package pipeline_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/funnelchart/pkg/pipeline"
)

func ExampleRunner_Execute() {
	runner := pipeline.NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), pipeline.Options{
		Table: [][]any{
			{"Stage", "Users"},
			{"Visited", 1000},
			{"Signed up", 150},
			{"Paid", 30},
		},
		Formats: []string{"json"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result.Stats.Segments, result.Layout.Title(), len(result.Artifacts["json"]) > 0)
	// Output: 3 Users true
}
