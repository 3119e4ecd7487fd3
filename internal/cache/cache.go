package cache

import (
	"sync"

	"github.com/openkart/kartcore/pkg/core"
)

type key struct {
	vehicleID string
	trackID   string
}

// RecordCache keeps best-time records read at race start so that lap
// completions compare against memory instead of hitting the store.
// Writes still go through to the store synchronously; the cache is
// updated alongside.
type RecordCache struct {
	m       sync.Mutex
	records map[key]core.BestTimeRecord
}

func NewRecordCache() *RecordCache {
	return &RecordCache{
		records: make(map[key]core.BestTimeRecord),
	}
}

func (c *RecordCache) Get(vehicleID, trackID string) (core.BestTimeRecord, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if r, ok := c.records[key{vehicleID, trackID}]; ok {
		return r, true
	}
	return core.BestTimeRecord{}, false
}

func (c *RecordCache) Put(r core.BestTimeRecord) {
	c.m.Lock()
	defer c.m.Unlock()
	c.records[key{r.VehicleID, r.TrackID}] = r
}

func (c *RecordCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.records = make(map[key]core.BestTimeRecord)
}
