package util

import (
	"crypto/rand"
	"math/big"
)

var (
	numSeq      [10]rune
	lowerSeq    [26]rune
	upperSeq    [26]rune
	numLowerSeq [36]rune
	allSeq      [62]rune
)

func init() {
	for i := 0; i < 10; i++ {
		numSeq[i] = rune('0' + i)
	}
	for i := 0; i < 26; i++ {
		lowerSeq[i] = rune('a' + i)
		upperSeq[i] = rune('A' + i)
	}

	copy(numLowerSeq[:], numSeq[:])
	copy(numLowerSeq[len(numSeq):], lowerSeq[:])

	copy(allSeq[:], numSeq[:])
	copy(allSeq[len(numSeq):], lowerSeq[:])
	copy(allSeq[len(numSeq)+len(lowerSeq):], upperSeq[:])
}

func RandomInt(n int) int {
	bn, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(bn.Int64())
}

func Random(n int) string {
	runes := make([]rune, n)
	for i := 0; i < n; i++ {
		runes[i] = allSeq[RandomInt(len(allSeq))]
	}
	return string(runes)
}

func RandomLowerAndNum(n int) string {
	runes := make([]rune, n)
	for i := 0; i < n; i++ {
		runes[i] = numLowerSeq[RandomInt(len(numLowerSeq))]
	}
	return string(runes)
}
