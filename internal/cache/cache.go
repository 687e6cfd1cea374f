// Package cache defines the in-process cache used in front of the
// database and for keyed in-memory tables.
package cache

type Cache interface {
	Get(key interface{}) (interface{}, bool)
	Add(key, value interface{})
	Keys() []interface{}
	Delete(key interface{})
	Len() int
	Purge()
}
