package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/queuecast/internal/predict"
	"github.com/alexanderramin/queuecast/internal/testutil"
	"github.com/stretchr/testify/require"
)

// recordingObserver keeps every event it receives.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events, "no use case observed")
	return o.events[len(o.events)-1]
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// rulesEngine is an Engine without artifacts over the sample reference data.
func rulesEngine(t *testing.T) *predict.Engine {
	t.Helper()
	engine, err := predict.NewEngine(predict.Reference{
		Tasks:    testutil.SampleTasks(),
		Staffing: testutil.SampleStaffing(),
	}, predict.Artifacts{}, predict.DefaultOptions())
	require.NoError(t, err)
	return engine
}
