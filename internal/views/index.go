package views

import (
	"time"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/mauv0809/pricelist/internal/reconcile"
)

// IndexData is what the dashboard shows for the active dataset.
type IndexData struct {
	Filename   string
	Schema     pricelist.Schema
	UploadedAt time.Time
	Summary    pricelist.Summary
	Reconciled *reconcile.Result
}

var statusOrder = []models.Status{
	models.StatusIncreased,
	models.StatusDecreased,
	models.StatusUnchanged,
	models.StatusNew,
	models.StatusDiscontinued,
	models.StatusAnomaly,
}
