package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex code_0ujsswThIGTUYm2K8FjOOfXtY1K
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

// GenerateShortIDWithPrefix returns a short ID with a prefix.
// Total length is capped at 12 characters, e.g., `AP-xYZ12A8Q`.
// Used for human-facing references like approval requests.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_DISCOUNT_CODE       = "code"
	UUID_PREFIX_CODE_REDEMPTION     = "redm"
	UUID_PREFIX_DISCOUNT_RULE       = "rule"
	UUID_PREFIX_LOYALTY_ACCOUNT     = "loyal"
	UUID_PREFIX_LOYALTY_TRANSACTION = "ltxn"
	UUID_PREFIX_VOLUME_TIER_SET     = "tierset"
	UUID_PREFIX_CAMPAIGN            = "camp"
	UUID_PREFIX_APPROVAL_REQUEST    = "appr"
)

const (
	SHORT_ID_PREFIX_APPROVAL = "AP-"
)
