package kvstore

import "errors"

var ErrNotFound = errors.New("kvstore: not found")

// Store is durable string-keyed storage. Values survive process restarts in
// the sqlite implementation; the snooze-chain state depends on that.
type Store interface {
	GetString(key string) (string, error)
	SetString(key, value string) error
	GetInt(key string) (int, error)
	SetInt(key string, value int) error
	Delete(key string) error
}
