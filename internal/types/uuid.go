package types

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex order_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

// initializeSID initializes the shortid generator once
func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateOrderNumber returns a human readable order number derived from the
// given date plus a random suffix, e.g. `ORD-20260114-X9Q4RT`.
func GenerateOrderNumber(t time.Time) string {
	once.Do(initializeSID)

	suffix, err := sidGenerator.Generate()
	if err != nil {
		suffix = GenerateUUID()[:6]
	}
	suffix = strings.ReplaceAll(suffix, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}

	return fmt.Sprintf("ORD-%s-%s", t.UTC().Format("20060102"), strings.ToUpper(suffix))
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_ORDER          = "order"
	UUID_PREFIX_PAYMENT_EVENT  = "evt"
	UUID_PREFIX_AUDIT_ENTRY    = "audit"
	UUID_PREFIX_WAITLIST_ENTRY = "wl"
)
