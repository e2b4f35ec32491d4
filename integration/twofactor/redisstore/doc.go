// Package redisstore implements twofactor.Store on Redis.
//
// Each owner uses two keys sharing a hash tag, so they live in the same
// cluster slot:
//
//	2fa:{<owner>}        hash: secret, created_at
//	2fa:{<owner>}:codes  sorted set: recovery code hashes scored by issue order
//
// Recovery code removal is a single ZREM, which Redis executes atomically.
// Replacing the code set runs as a Lua script that first checks the record
// still exists.
package redisstore
