package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	k := New()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock("exchange-1")
			defer k.Unlock("exchange-1")
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestLockKeysOverlappingSets(t *testing.T) {
	k := New()
	counter := 0
	var wg sync.WaitGroup
	// Overlapping key sets locked in opposite textual order must not deadlock.
	sets := [][]string{
		{"book-b", "book-a"},
		{"book-a", "book-c"},
		{"book-c", "book-b"},
	}
	for i := 0; i < 30; i++ {
		for _, keys := range sets {
			wg.Add(1)
			go func(keys []string) {
				defer wg.Done()
				k.LockKeys(keys)
				defer k.UnlockKeys(keys)
				counter++
			}(keys)
		}
	}
	wg.Wait()
	assert.Equal(t, 90, counter)
}

func TestLockKeysDuplicates(t *testing.T) {
	k := New()
	keys := []string{"book-a", "book-a"}
	k.LockKeys(keys)
	k.UnlockKeys(keys)
	// Locking again must succeed, proving the duplicate was locked only once.
	k.Lock("book-a")
	k.Unlock("book-a")
}
