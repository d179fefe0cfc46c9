// Package testsupport provides the scripted collaborators contract tests
// wire in place of real option sources and sub-editors: providers that
// replay canned responses while recording the queries they served, creation
// flows that resolve with preset outcomes, and golden-file helpers.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/provider"
)

// ScriptedProvider replays canned option responses in order and records
// every query it serves. When the script is exhausted the last response
// repeats, so a test only scripts the interesting cycles.
type ScriptedProvider struct {
	mu        sync.Mutex
	responses []Response
	served    int
	queries   []provider.Query
}

// Response is one scripted fetch outcome.
type Response struct {
	Options []provider.Option
	Err     error
}

// NewScriptedProvider builds a provider replaying responses.
func NewScriptedProvider(responses ...Response) *ScriptedProvider {
	return &ScriptedProvider{responses: responses}
}

// Values replays the next scripted response.
func (p *ScriptedProvider) Values(ctx context.Context, query provider.Query) ([]provider.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, query)

	if len(p.responses) == 0 {
		return nil, nil
	}
	index := p.served
	if index >= len(p.responses) {
		index = len(p.responses) - 1
	}
	p.served++
	response := p.responses[index]
	return append([]provider.Option(nil), response.Options...), response.Err
}

// Queries returns a copy of every query served so far.
func (p *ScriptedProvider) Queries() []provider.Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]provider.Query(nil), p.queries...)
}

// ServedCount reports how many fetches the provider answered.
func (p *ScriptedProvider) ServedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queries)
}

// RecordingFlow is a creation flow resolving with preset outcomes in order:
// a record, a cancellation (nil record), or a failure. It counts
// invocations so tests can assert the flow ran exactly once per insert.
type RecordingFlow struct {
	mu       sync.Mutex
	outcomes []FlowOutcome
	calls    int
}

// FlowOutcome is one scripted flow resolution.
type FlowOutcome struct {
	Record *binder.Record
	Err    error
}

// NewRecordingFlow builds a flow replaying outcomes. An exhausted script
// resolves as cancelled.
func NewRecordingFlow(outcomes ...FlowOutcome) *RecordingFlow {
	return &RecordingFlow{outcomes: outcomes}
}

// Create replays the next scripted outcome.
func (f *RecordingFlow) Create(ctx context.Context) (*binder.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	index := f.calls
	f.calls++
	if index >= len(f.outcomes) {
		return nil, nil
	}
	outcome := f.outcomes[index]
	return outcome.Record, outcome.Err
}

// Calls reports how many times the flow ran.
func (f *RecordingFlow) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// MustLoadForm reads a JSON fixture into a form descriptor.
func MustLoadForm(t *testing.T, path string) descriptor.Form {
	t.Helper()

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadForm reads a JSON fixture into a form descriptor, returning an error
// for callers managing setup outside of *testing.T.
func LoadForm(path string) (descriptor.Form, error) {
	if path == "" {
		return descriptor.Form{}, errors.New("testsupport: form path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return descriptor.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	var form descriptor.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return descriptor.Form{}, fmt.Errorf("testsupport: unmarshal form: %w", err)
	}
	return form, nil
}

// DiffForms fails the test when two descriptors differ, printing the diff.
func DiffForms(t *testing.T, want, got descriptor.Form) {
	t.Helper()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

// WriteGolden writes a JSON golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}
