package runner

import (
	"context"
	"strings"
)

// Fake is a scripted Runner for tests. Responses are keyed by the joined
// argv; unmatched commands succeed with empty output.
type Fake struct {
	Responses map[string]FakeResponse
	Calls     []Cmd
}

// FakeResponse is what Fake returns for a matching command.
type FakeResponse struct {
	Result Result
	Err    error
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{Responses: map[string]FakeResponse{}}
}

// On registers a response for the exact argv.
func (f *Fake) On(argv []string, res Result, err error) *Fake {
	f.Responses[strings.Join(argv, " ")] = FakeResponse{Result: res, Err: err}
	return f
}

// Run records cmd and returns the registered response.
func (f *Fake) Run(_ context.Context, cmd Cmd) (Result, error) {
	f.Calls = append(f.Calls, cmd)
	if resp, ok := f.Responses[strings.Join(cmd.Argv(), " ")]; ok {
		return resp.Result, resp.Err
	}
	return Result{}, nil
}

// Invoked returns the argv of every recorded call.
func (f *Fake) Invoked() [][]string {
	out := make([][]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.Argv())
	}
	return out
}
