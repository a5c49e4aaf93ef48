package catalog

import (
	"sync"
	"testing"

	"github.com/concord-chat/chatinput/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore(
		[]models.MCPServer{{ID: "s1", Name: "Alpha", Tools: []models.Tool{{Name: "t1"}}}},
		[]models.Workflow{{ID: "w1", Name: "Deploy", Icon: &models.WorkflowIcon{Type: "emoji", Value: "🚀"}}},
	)

	snap := store.Snapshot()
	snap.Servers[0].Tools[0].Name = "mutated"
	snap.Workflows[0].Icon.Value = "mutated"

	again := store.Snapshot()
	assert.Equal(t, "t1", again.Servers[0].Tools[0].Name)
	assert.Equal(t, "🚀", again.Workflows[0].Icon.Value)
}

func TestStore_RevisionAdvancesOnWrites(t *testing.T) {
	store := NewStore(nil, nil)
	start := store.Revision()

	store.SetServers([]models.MCPServer{{ID: "s1", Name: "Alpha"}})
	assert.Equal(t, start+1, store.Revision())

	store.SetWorkflows([]models.Workflow{{ID: "w1", Name: "Deploy"}})
	assert.Equal(t, start+2, store.Revision())

	// reads do not advance it
	_ = store.Snapshot()
	assert.Equal(t, start+2, store.Snapshot().Revision)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.SetServers([]models.MCPServer{{ID: "s", Name: "S", Tools: []models.Tool{{Name: "t"}}}})
		}()
		go func() {
			defer wg.Done()
			_ = store.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(9), store.Revision())
}
