package core

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	var km keyedMutex
	const workers = 16

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("deal_1")
			counter++
			km.Unlock("deal_1")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments under lock, got %d", workers, counter)
	}
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	var km keyedMutex
	km.Lock("deal_a")

	done := make(chan struct{})
	go func() {
		km.Lock("deal_b")
		km.Unlock("deal_b")
		close(done)
	}()
	<-done

	km.Unlock("deal_a")
}
