package finding

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorOrderAndSnapshot(t *testing.T) {
	ck := assert.New(t)
	c := NewCollector()
	c.Add("first", 1, KindMalformedTag)
	c.Add("second", 2, KindUnclosedTag, WithTagName("a"))
	c.Add("third", 3, KindSchemaViolation)

	snap := c.Snapshot()
	ck.Len(snap, 3)
	ck.Equal("first", snap[0].Message)
	ck.Equal("second", snap[1].Message)
	ck.Equal("third", snap[2].Message)

	// snapshot is decoupled from further mutation
	c.Add("fourth", 4, KindMalformedTag)
	ck.Len(snap, 3)
	snap[0].SetZone("zone", 1, 2)
	ck.False(c.Snapshot()[0].ZoneExtracted())

	c.Clear()
	ck.Equal(0, c.Len())
	ck.False(c.HasFindings())
}

func TestCollectorConcurrentProducers(t *testing.T) {
	ck := assert.New(t)
	c := NewCollector()
	const producers = 8
	const each = 250

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				c.Add(fmt.Sprintf("p%d-%d", p, i), i+1, KindMalformedTag)
			}
		}(p)
	}
	wg.Wait()

	ck.Equal(producers*each, c.Len())
}
