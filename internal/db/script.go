package db

import (
	"crypto/sha1" //nolint:gosec // Redis addresses cached scripts by SHA1
	"encoding/hex"
	"fmt"
	"strings"
)

// Script is a Lua body addressed by the SHA1 of its contents, as the
// server's script cache expects. Drivers call EVALSHA first and re-send the
// body with EVAL only when the server answers NOSCRIPT.
type Script struct {
	body string
	sha  string
}

// NewScript hashes body once.
func NewScript(body string) *Script {
	sum := sha1.Sum([]byte(body)) //nolint:gosec // content address, not a security boundary
	return &Script{body: body, sha: hex.EncodeToString(sum[:])}
}

// Body returns the Lua source.
func (s *Script) Body() string { return s.body }

// SHA returns the hex SHA1 of the body.
func (s *Script) SHA() string { return s.sha }

// IsNoScript reports whether a server error message is the NOSCRIPT reply.
func IsNoScript(msg string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(msg)), "NOSCRIPT")
}

// SnapshotScript reads TYPE and the full contents of KEYS[1] in one atomic
// server-side step, so no write can land between the type check and the read.
// Lua replies are RESP2-converted: HGETALL and ZRANGE WITHSCORES come back flat.
var SnapshotScript = NewScript(`local t = redis.call('TYPE', KEYS[1])['ok']
if t == 'set' then
  return {t, redis.call('SMEMBERS', KEYS[1])}
elseif t == 'list' then
  return {t, redis.call('LRANGE', KEYS[1], 0, -1)}
elseif t == 'hash' then
  return {t, redis.call('HGETALL', KEYS[1])}
elseif t == 'zset' then
  return {t, redis.call('ZRANGE', KEYS[1], 0, -1, 'WITHSCORES')}
end
return {t, {}}
`)

// ParseSnapshot converts a decoded [type, [values...]] script reply.
func ParseSnapshot(typ string, values []string) (Snapshot, error) {
	if typ == "" {
		return Snapshot{}, fmt.Errorf("%w: empty type in snapshot", ErrMalformedReply)
	}
	return Snapshot{Type: typ, Values: values}, nil
}
