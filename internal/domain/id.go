package domain

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	idAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	idRandomLength = 9
)

// NewID returns a base-36 millisecond timestamp followed by nine random
// base-36 characters. Ids generated in the same millisecond differ in the suffix.
func NewID() string {
	return newIDAt(time.Now())
}

func newIDAt(now time.Time) string {
	var b strings.Builder

	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))

	for range idRandomLength {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}

	return b.String()
}
