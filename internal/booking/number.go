package booking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewReservationNumber returns a human-readable reservation number of
// the form ZL-YYYYMMDD-XXXXXXXX, where the suffix is four bytes of
// cryptographically secure randomness in upper-case hex.  The number is
// shown to visitors on tickets and support conversations; uniqueness is
// additionally guaranteed by the database constraint on the column.
func NewReservationNumber(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("ZL-%s-%s",
		now.UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(buf))), nil
}
