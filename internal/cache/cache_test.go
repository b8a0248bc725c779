package cache

import (
	"fmt"
	"sync"
	"testing"

	"submithub/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionCache_ReplaceAndGet(t *testing.T) {
	c := NewSubmissionCache()

	_, ok := c.Get("a.pdf")
	assert.False(t, ok)

	c.Replace(map[string]model.Submission{
		"a.pdf": {FileName: "a.pdf", SubmitterName: "Alice"},
	})

	sub, ok := c.Get("a.pdf")
	assert.True(t, ok)
	assert.Equal(t, "Alice", sub.SubmitterName)
	assert.Equal(t, 1, c.Len())
}

func TestSubmissionCache_ReplaceNil(t *testing.T) {
	c := NewSubmissionCache()
	c.PutLocal(model.Submission{FileName: "a.pdf"})

	c.Replace(nil)

	assert.Equal(t, 0, c.Len())
	// still usable for writes after a nil replace
	c.PutLocal(model.Submission{FileName: "b.pdf"})
	assert.Equal(t, 1, c.Len())
}

func TestSubmissionCache_PutLocalReadYourWrite(t *testing.T) {
	c := NewSubmissionCache()
	c.Replace(map[string]model.Submission{})

	c.PutLocal(model.Submission{FileName: "a.pdf", SubmitterName: "Alice", RouteTarget: "T1"})

	sub, ok := c.Get("a.pdf")
	assert.True(t, ok)
	assert.Equal(t, "T1", sub.RouteTarget)
}

func TestSubmissionCache_AllSorted(t *testing.T) {
	c := NewSubmissionCache()
	c.PutLocal(model.Submission{FileName: "b.pdf"})
	c.PutLocal(model.Submission{FileName: "a.pdf"})
	c.PutLocal(model.Submission{FileName: "c.pdf"})

	all := c.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "a.pdf", all[0].FileName)
	assert.Equal(t, "c.pdf", all[2].FileName)
}

func TestSubmissionCache_ConcurrentDistinctNames(t *testing.T) {
	c := NewSubmissionCache()

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers + 1)

	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			c.PutLocal(model.Submission{FileName: fmt.Sprintf("file-%03d.pdf", i)})
		}(i)
	}

	// Concurrent reads while writers run must not race or observe partial maps.
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = c.All()
			_, _ = c.Get("file-000.pdf")
		}
	}()

	wg.Wait()

	assert.Equal(t, writers, c.Len())
	seen := make(map[string]bool)
	for _, sub := range c.All() {
		assert.False(t, seen[sub.FileName], "duplicate record for %s", sub.FileName)
		seen[sub.FileName] = true
	}
}
