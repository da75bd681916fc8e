package flightsql

import (
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"
)

// adHocStatements hands out single-use handles between GetFlightInfo and
// DoGet for ad-hoc CommandStatementQuery requests (§6 TicketStatementQuery:
// "a server-issued replacement ticket"). Unlike prepared statements these
// have no Bind step and no busy-lease; a handle is consumed at most once
// and idle-expires if the client never calls DoGet at all.
type adHocStatements struct {
	cache gcache.Cache
}

func newAdHocStatements(size int, idleTTL time.Duration) *adHocStatements {
	a := &adHocStatements{}
	a.cache = gcache.New(size).LRU().Expiration(idleTTL).Build()
	return a
}

func (a *adHocStatements) create(query string) []byte {
	handle := uuid.NewString()
	_ = a.cache.Set(handle, query)
	return []byte(handle)
}

// take resolves handle to its query and removes it; a second call with the
// same handle returns HandleNotFoundError.
func (a *adHocStatements) take(handle []byte) (string, error) {
	key := string(handle)
	v, err := a.cache.Get(key)
	if err != nil {
		return "", &HandleNotFoundError{Handle: key}
	}
	a.cache.Remove(key)
	return v.(string), nil
}
