package issuance

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/uhyunpark/setcodec/pkg/util"
)

var saltSpace = new(big.Int).Lsh(big.NewInt(1), 256)

// GenerateSalt draws a salt uniformly from [0, 2^256) using r.
// A nil reader means crypto/rand.
func GenerateSalt(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	salt, err := rand.Int(r, saltSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateTimestamp returns the unix time, in seconds, minutes from now.
func GenerateTimestamp(clock util.Clock, minutes int) *big.Int {
	expiry := clock.Now().Add(time.Duration(minutes) * time.Minute)
	return big.NewInt(expiry.Unix())
}
