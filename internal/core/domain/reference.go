package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// referencePrefix namespaces references by resource kind so a listing fee
// and a ticket fee can never collide even for the same owner.
func referencePrefix(kind ResourceKind) string {
	if kind == KindRegistration {
		return "REG"
	}
	return "LST"
}

// NewReference generates a payment reference unique with overwhelming
// probability: kind namespace, resource id prefix, nanosecond timestamp
// and a random hex suffix.
func NewReference(kind ResourceKind, resourceID string) string {
	idPrefix := resourceID
	if len(idPrefix) > 8 {
		idPrefix = idPrefix[:8]
	}
	idPrefix = strings.ReplaceAll(idPrefix, "-", "")

	suffix := make([]byte, 6)
	_, _ = rand.Read(suffix)

	return fmt.Sprintf("%s-%s-%d-%s",
		referencePrefix(kind),
		idPrefix,
		time.Now().UnixNano(),
		hex.EncodeToString(suffix),
	)
}

// KindFromReference recovers the resource kind a reference was issued for.
func KindFromReference(reference string) (ResourceKind, bool) {
	switch {
	case strings.HasPrefix(reference, "LST-"):
		return KindListing, true
	case strings.HasPrefix(reference, "REG-"):
		return KindRegistration, true
	default:
		return "", false
	}
}
