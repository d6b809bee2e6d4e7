package keyspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rudranil/techstore/cache/keyspace"
)

func TestDeriveIsDeterministic(t *testing.T) {
	assert.Equal(t, "techstore:products:p1", keyspace.Derive("", "products:p1"))
	assert.Equal(t, keyspace.Derive("ns", "k"), keyspace.Derive("ns", "k"))
	assert.Equal(t, "ns:k", keyspace.Derive("ns", "k"))
}

func TestMember(t *testing.T) {
	storageKey := keyspace.Derive("ns", "products:list:abc")
	assert.True(t, keyspace.Member("ns", storageKey, "products"))
	assert.False(t, keyspace.Member("ns", storageKey, "users"))
}

func TestParamsKeyIsOrderIndependent(t *testing.T) {
	a := keyspace.ParamsKey("products:list", map[string]string{
		"category": "Laptop",
		"featured": "true",
		"limit":    "50",
	})
	b := keyspace.ParamsKey("products:list", map[string]string{
		"limit":    "50",
		"featured": "true",
		"category": "Laptop",
	})
	assert.Equal(t, a, b)
}

func TestParamsKeySeparatesDifferentFilters(t *testing.T) {
	a := keyspace.ParamsKey("products:list", map[string]string{"category": "Laptop"})
	b := keyspace.ParamsKey("products:list", map[string]string{"category": "Audio"})
	assert.NotEqual(t, a, b)
}
