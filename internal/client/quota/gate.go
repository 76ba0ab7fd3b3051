// Package quota decides locally whether a session may submit another
// analysis. The backend enforces the same limit authoritatively; this gate
// only spares a request that is certain to be refused.
package quota

import (
	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
)

// Decision is the outcome of CanSubmit.
type Decision struct {
	Admit bool
	Used  int
	Limit int
}

// Remaining is the number of submissions left, never negative.
func (d Decision) Remaining() int {
	if r := d.Limit - d.Used; r > 0 {
		return r
	}
	return 0
}

// Err returns nil for an admit and a non-authoritative *common.QuotaError
// for a deny.
func (d Decision) Err() error {
	if d.Admit {
		return nil
	}
	return &common.QuotaError{Used: d.Used, Limit: d.Limit}
}

// CanSubmit admits iff s.UsageCount < limit. A non-positive limit falls back
// to common.DefaultUsageLimit.
func CanSubmit(s models.Session, limit int) Decision {
	if limit <= 0 {
		limit = common.DefaultUsageLimit
	}
	return Decision{
		Admit: s.UsageCount < limit,
		Used:  s.UsageCount,
		Limit: limit,
	}
}
