package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLog_AppendAndRecords(t *testing.T) {
	log := NewSessionLog()
	assert.Equal(t, 0, log.Len())

	log.Append(SessionRecord{Name: "a.pdf", ID: "v1", Size: 10})
	log.Append(SessionRecord{Name: "b.pdf", ID: "v2", Size: 20})

	records := log.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a.pdf", records[0].Name)
	assert.Equal(t, "b.pdf", records[1].Name)
}

func TestSessionLog_RecordsReturnsCopy(t *testing.T) {
	log := NewSessionLog()
	log.Append(SessionRecord{Name: "a.pdf"})

	records := log.Records()
	records[0].Name = "mutated"

	assert.Equal(t, "a.pdf", log.Records()[0].Name)
}

func TestSessionLog_ConcurrentAppend(t *testing.T) {
	log := NewSessionLog()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(SessionRecord{Name: "x.pdf"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, log.Len())
}
