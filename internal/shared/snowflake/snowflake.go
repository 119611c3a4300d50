package snowflake

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ID is a Discord snowflake. Discord hands IDs out as decimal strings; both
// configured and library-supplied IDs go through Parse before comparison.
type ID uint64

func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty snowflake")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid snowflake %q", s)
	}
	return ID(v), nil
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
