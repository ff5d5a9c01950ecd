package cache

import "github.com/gomodule/redigo/redis"

// Thin typed wrappers over the redigo commands the room layer uses:
// plain keys for snapshots and room flags, lists for join order.

func Get(conn redis.Conn, key string) (string, error) {
	return redis.String(conn.Do("GET", key))
}

func Set(conn redis.Conn, key string, value interface{}) error {
	_, err := conn.Do("SET", key, value)
	return err
}

func Del(conn redis.Conn, keys ...string) error {
	args := redis.Args{}
	for _, k := range keys {
		args = args.Add(k)
	}
	_, err := conn.Do("DEL", args...)
	return err
}

func RPush(conn redis.Conn, key string, value string) error {
	_, err := conn.Do("RPUSH", key, value)
	return err
}

func LRem(conn redis.Conn, key string, value string) error {
	_, err := conn.Do("LREM", key, 0, value)
	return err
}

func LLen(conn redis.Conn, key string) (int, error) {
	return redis.Int(conn.Do("LLEN", key))
}

// LRange returns the whole list.
func LRange(conn redis.Conn, key string) ([]string, error) {
	return redis.Strings(conn.Do("LRANGE", key, 0, -1))
}
