package payments

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewTxRef returns a reference of the form txn_<epoch-millis>_<0-999>.
// Uniqueness rests on the clock plus a small random suffix; it is not
// guaranteed.
func NewTxRef() string {
	return fmt.Sprintf("txn_%d_%d", time.Now().UnixMilli(), rand.IntN(1000))
}
