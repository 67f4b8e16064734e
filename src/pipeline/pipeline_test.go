package pipeline

import (
	"errors"
	"testing"
)

/*
DUMMY PIPELINE
*/

type ComponentA struct {
	input  []int
	output chan int
}

func NewComponentA(i []int) *ComponentA {
	return &ComponentA{input: i, output: make(chan int)}
}

func (ComponentA *ComponentA) Run() {
	defer close(ComponentA.output)
	for _, input := range ComponentA.input {
		ComponentA.output <- input
	}
}

type ComponentB struct {
	input    chan int
	addition int
	limit    int
	results  []int
	err      error
}

func NewComponentB(i, limit int) *ComponentB {
	return &ComponentB{addition: i, limit: limit}
}

func (ComponentB *ComponentB) Connect(previous *ComponentA) {
	ComponentB.input = previous.output
}

func (ComponentB *ComponentB) Run() {
	results := []int{}
	for input := range ComponentB.input {
		if input > ComponentB.limit {
			ComponentB.err = errors.New("input over limit")
			continue
		}
		results = append(results, (input + ComponentB.addition))
	}
	ComponentB.results = results
}

func (ComponentB *ComponentB) Err() error {
	return ComponentB.err
}

/*
DUMMY PIPELINE TEST
*/

func TestPipeline(t *testing.T) {
	inputValues := []int{1, 2, 3, 4}
	expectedOutput := []int{11, 12, 13, 14}

	// create the processes
	a := NewComponentA(inputValues)
	b := NewComponentB(10, 100)

	// create the pipeline
	newPipeline := NewPipeline()

	// add the processes and connect them
	newPipeline.AddProcesses(a, b)
	b.Connect(a)
	if newPipeline.GetNumProcesses() != 2 {
		t.Fatal("did not add correct number of processes to pipeline")
	}

	// run the pipeline
	if err := newPipeline.Run(); err != nil {
		t.Fatal(err)
	}

	// once the pipeline is done, there should be results in the final component
	if len(expectedOutput) != len(b.results) {
		t.Fatal("pipeline did not produce expected output")
	}
	for i, val := range b.results {
		if val != expectedOutput[i] {
			t.Fatal("pipeline did not produce expected output")
		}
	}
}

func TestPipelineError(t *testing.T) {
	a := NewComponentA([]int{1, 200, 3})
	b := NewComponentB(10, 100)
	b.Connect(a)
	newPipeline := NewPipeline()
	newPipeline.AddProcesses(a, b)
	if err := newPipeline.Run(); err == nil {
		t.Fatal("pipeline should report the failed process")
	}

	// the failing component still drains its input
	if len(b.results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(b.results))
	}
}
