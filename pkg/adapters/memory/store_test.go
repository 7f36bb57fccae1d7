package memory_test

import (
	"testing"

	"github.com/amparo-health/screening/pkg/adapters/memory"
	"github.com/amparo-health/screening/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}
