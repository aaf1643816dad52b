package pricelist

import (
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
)

// Prices are treated as a monthly run rate.
var monthsPerYear = decimal.NewFromInt(12)

// PotentialImpact is the signed annualized cost delta. A price increase is
// negative (more cost to the business); losing a discontinued item
// forfeits its whole annual spend.
func PotentialImpact(oldPrice, newPrice decimal.Decimal, status models.Status) decimal.Decimal {
	if status == models.StatusDiscontinued {
		return oldPrice.Mul(monthsPerYear).Neg()
	}
	return newPrice.Sub(oldPrice).Mul(monthsPerYear).Neg()
}

// Margins returns margin before, after, and the change, all in percent.
// All three are nil unless retail is positive.
func Margins(retail *decimal.Decimal, oldPrice, newPrice decimal.Decimal) (oldMargin, newMargin, change *decimal.Decimal) {
	if retail == nil || !retail.IsPositive() {
		return nil, nil, nil
	}
	om := margin(*retail, oldPrice)
	nm := margin(*retail, newPrice)
	ch := nm.Sub(om)
	return &om, &nm, &ch
}

func margin(retail, cost decimal.Decimal) decimal.Decimal {
	return retail.Sub(cost).Div(retail).Mul(hundred)
}

// Evaluate fills every derived field of a normalized record: difference,
// anomaly flags, status, impact and margins.
func Evaluate(rec *models.PriceRecord) {
	rec.Difference = Difference(rec.OldPrice, rec.NewPrice)
	rec.AnomalyTypes = DetectAnomalies(rec.OldIdentity, rec.NewIdentity)
	rec.Status = ResolveStatus(rec.OldPrice, rec.NewPrice, rec.AnomalyTypes)
	rec.PotentialImpact = PotentialImpact(rec.OldPrice, rec.NewPrice, rec.Status)
	rec.OldMargin, rec.NewMargin, rec.MarginChange = Margins(rec.RetailPrice, rec.OldPrice, rec.NewPrice)
}
