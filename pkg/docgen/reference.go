package docgen

import (
	"fmt"
	"math/rand"
	"time"
)

// ReferencePrefix is the fixed prefix of every contract reference.
const ReferencePrefix = "REG"

// GenerateReference builds a contract reference of the form
// REG-YYYYMMDD-NNNNN where NNNNN is a zero-padded random value in
// [0, 100000). References are not globally unique; the documents table's
// unique index on reference is the actual guarantee, and a collision there
// fails the whole generation.
func GenerateReference(t time.Time, rnd *rand.Rand) string {
	return fmt.Sprintf("%s-%s-%05d", ReferencePrefix, t.Format("20060102"), rnd.Intn(100000))
}
