package pst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermuteTableIsABijection(t *testing.T) {
	var seen [256]bool
	for _, v := range permuteTable {
		assert.False(t, seen[v], "permuteTable has a duplicate output byte %d", v)
		seen[v] = true
	}
}

func TestDecryptEncryptPermuteRoundTrip(t *testing.T) {
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}

	decoded := decryptPermute(payload)
	reencoded := encryptPermute(decoded)
	assert.Equal(t, payload, reencoded)
}

func TestInversePermuteTableMatchesForwardTable(t *testing.T) {
	for plain, cipher := range permuteTable {
		assert.Equal(t, byte(plain), inversePermuteTable[cipher])
	}
}
