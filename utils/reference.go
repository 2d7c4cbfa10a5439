package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewReference returns a unique reference like "WDR-9F2C41A7B3D0" for ledger
// entries, withdrawal requests and receipts.
func NewReference(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, raw[:12])
}
