package pkg

import (
	"math/rand"
	"time"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seeded = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandString yields a short room code.
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[seeded.Intn(len(letters))]
	}
	return string(b)
}
