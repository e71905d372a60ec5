package cache

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"maintenance-dispatch/models"
)

// MatchKey identifies a match result for a request against one version of a
// provider file. Any change to the file's size or modification time, or to
// the search parameters, yields a different key.
func MatchKey(source string, size int64, modTime time.Time, req models.Request, radiusKm float64, limit int, list bool) string {
	d := xxhash.New()
	for _, part := range []string{
		source,
		strconv.FormatInt(size, 10),
		strconv.FormatInt(modTime.UnixNano(), 10),
		strings.ToLower(req.Trade),
		strconv.FormatUint(math.Float64bits(req.Latitude), 16),
		strconv.FormatUint(math.Float64bits(req.Longitude), 16),
		strconv.FormatUint(math.Float64bits(radiusKm), 16),
		strconv.Itoa(limit),
		strconv.FormatBool(list),
	} {
		_, _ = d.WriteString(part)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("match:%016x", d.Sum64())
}
