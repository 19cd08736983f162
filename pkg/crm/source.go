// Package crm pulls lead records out of the CRM, either through the
// Salesforce REST API or from a periodic CSV export dropped over HTTP
// or FTP.
package crm

import (
	"context"

	"github.com/growthops/leadops-cli/internal/model"
)

// Source produces a full CRM lead extract. Implementations do not
// filter or dedup; the pipeline owns those rules.
type Source interface {
	Fetch(ctx context.Context) ([]model.CrmRecord, error)
}
