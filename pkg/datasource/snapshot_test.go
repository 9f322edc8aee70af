package datasource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

func TestState_StartsDisconnected(t *testing.T) {
	state := NewState()
	snap := state.Current()
	require.NotNil(t, snap)
	assert.False(t, snap.Connected())
	assert.Nil(t, snap.Schema)
	assert.Nil(t, snap.Documentation)
}

func TestState_UpdateInstallsFreshSnapshot(t *testing.T) {
	state := NewState()
	before := state.Current()

	schema := models.NewSchema()
	after := state.Update(func(cur Snapshot) Snapshot {
		cur.Schema = schema
		return cur
	})

	// The old snapshot a reader might still hold is untouched.
	assert.Nil(t, before.Schema)
	assert.Same(t, schema, after.Schema)
	assert.Same(t, after, state.Current())
}

func TestState_UpdatePreservesUnmodifiedFields(t *testing.T) {
	state := NewState()
	docs := models.Documentation{"orders": {Description: "orders"}}
	state.Update(func(cur Snapshot) Snapshot {
		cur.ConnectionString = "sqlite:test.db"
		cur.Documentation = docs
		return cur
	})

	schema := models.NewSchema()
	state.Update(func(cur Snapshot) Snapshot {
		cur.Schema = schema
		return cur
	})

	snap := state.Current()
	assert.Equal(t, "sqlite:test.db", snap.ConnectionString)
	assert.Equal(t, docs, snap.Documentation)
	assert.Same(t, schema, snap.Schema)
}

// Readers must always observe a consistent (schema, documentation) pair even
// while writers race. Run with -race to make this meaningful.
func TestState_ConcurrentReadersAndWriters(t *testing.T) {
	state := NewState()

	pairs := make([]*models.Schema, 8)
	docsFor := make(map[*models.Schema]models.Documentation, 8)
	for i := range pairs {
		pairs[i] = models.NewSchema()
		docsFor[pairs[i]] = models.Documentation{"t": {}}
	}

	var wg sync.WaitGroup
	for _, schema := range pairs {
		wg.Add(1)
		go func(s *models.Schema) {
			defer wg.Done()
			state.Update(func(cur Snapshot) Snapshot {
				cur.Schema = s
				cur.Documentation = docsFor[s]
				return cur
			})
		}(schema)
	}

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := state.Current()
				if snap.Schema != nil {
					// Whatever schema we see must be paired with its
					// matching documentation.
					assert.Equal(t, docsFor[snap.Schema], snap.Documentation)
				}
			}
		}()
	}

	wg.Wait()
}

func TestSnapshot_Connected(t *testing.T) {
	var nilSnap *Snapshot
	assert.False(t, nilSnap.Connected())
	assert.False(t, (&Snapshot{}).Connected())
}
