package cost

import (
	"fmt"
	"strings"

	"github.com/archlens/archlens/internal/detector"
)

// ServiceEstimate is the projected cost of one detected service, scaled
// by how often it was referenced.
type ServiceEstimate struct {
	ServiceID     string  `json:"service_id"`
	Service       string  `json:"service"`
	MonthlyRange  string  `json:"monthly_cost_range"`
	YearlyRange   string  `json:"yearly_cost_range"`
	MonthlyMin    float64 `json:"monthly_min"`
	MonthlyMax    float64 `json:"monthly_max"`
	YearlyMin     float64 `json:"yearly_min"`
	YearlyMax     float64 `json:"yearly_max"`
	Currency      string  `json:"currency"`
	Assumptions   string  `json:"assumptions"`
	UsageDetected int     `json:"usage_detected"`
}

// TotalCosts aggregates range endpoints independently: low with low,
// high with high.
type TotalCosts struct {
	MonthlyRange string  `json:"monthly_range"`
	YearlyRange  string  `json:"yearly_range"`
	MonthlyMin   float64 `json:"monthly_min"`
	MonthlyMax   float64 `json:"monthly_max"`
	YearlyMin    float64 `json:"yearly_min"`
	YearlyMax    float64 `json:"yearly_max"`
	Currency     string  `json:"currency"`
}

// Breakdown splits the monthly high estimate by service category.
type Breakdown struct {
	Infrastructure float64 `json:"infrastructure"`
	Databases      float64 `json:"databases"`
	Frameworks     float64 `json:"frameworks"`
}

// Estimate is the full cost projection for a detected service set.
type Estimate struct {
	ServiceEstimates []ServiceEstimate `json:"service_estimates"`
	TotalCosts       TotalCosts        `json:"total_costs"`
	CostBreakdown    Breakdown         `json:"cost_breakdown"`
	Recommendations  []string          `json:"recommendations"`
}

// Project estimates monthly and yearly costs for the detected services.
// Canonical keys without a pricing entry are omitted; that is not an error.
func Project(services []detector.Service) Estimate {
	est := Estimate{
		ServiceEstimates: []ServiceEstimate{},
		TotalCosts:       TotalCosts{Currency: "USD"},
	}

	databaseCount := 0
	for _, svc := range services {
		base, ok := pricing[svc.CanonicalKey]
		if !ok {
			continue
		}

		scale := scaleFor(svc.EvidenceCount)
		se := ServiceEstimate{
			ServiceID:     svc.ID,
			Service:       svc.Name,
			MonthlyMin:    base.MonthlyMin * scale,
			MonthlyMax:    base.MonthlyMax * scale,
			YearlyMin:     base.YearlyMin * scale,
			YearlyMax:     base.YearlyMax * scale,
			Currency:      "USD",
			Assumptions:   base.Assumptions,
			UsageDetected: svc.EvidenceCount,
		}
		se.MonthlyRange = formatRange(se.MonthlyMin, se.MonthlyMax)
		se.YearlyRange = formatRange(se.YearlyMin, se.YearlyMax)
		est.ServiceEstimates = append(est.ServiceEstimates, se)

		est.TotalCosts.MonthlyMin += se.MonthlyMin
		est.TotalCosts.MonthlyMax += se.MonthlyMax
		est.TotalCosts.YearlyMin += se.YearlyMin
		est.TotalCosts.YearlyMax += se.YearlyMax

		switch svc.Category {
		case detector.CategoryDatabase:
			est.CostBreakdown.Databases += se.MonthlyMax
			databaseCount++
		case detector.CategoryFramework:
			est.CostBreakdown.Frameworks += se.MonthlyMax
		default:
			est.CostBreakdown.Infrastructure += se.MonthlyMax
		}
	}

	est.TotalCosts.MonthlyRange = formatRange(est.TotalCosts.MonthlyMin, est.TotalCosts.MonthlyMax)
	est.TotalCosts.YearlyRange = formatRange(est.TotalCosts.YearlyMin, est.TotalCosts.YearlyMax)
	est.Recommendations = recommendations(services, est, databaseCount)

	return est
}

// recommendations derives cost-optimization advice from fixed triggers.
// Trigger order is fixed, so output is deterministic.
func recommendations(services []detector.Service, est Estimate, databaseCount int) []string {
	var recs []string

	if est.TotalCosts.MonthlyMax > 500 {
		recs = append(recs, "Consider reserved instances or savings plans for long-term deployments")
	}

	hasAWS := false
	hasKubernetes := false
	for _, svc := range services {
		if strings.HasPrefix(svc.CanonicalKey, "aws_") {
			hasAWS = true
		}
		if svc.CanonicalKey == "kubernetes" {
			hasKubernetes = true
		}
	}

	if hasAWS {
		recs = append(recs,
			"Use the AWS Free Tier for development and testing",
			"Implement auto-scaling to match capacity to demand")
	}
	if hasKubernetes {
		recs = append(recs, "Consider spot instances for non-critical workloads")
	}
	if databaseCount >= 3 {
		recs = append(recs, "Multiple database services detected: consider connection pooling and consolidation")
	}
	if len(est.ServiceEstimates) > 5 {
		recs = append(recs, "Review service dependencies to identify consolidation opportunities")
	}

	recs = append(recs,
		"Monitor usage with cost alerts to prevent unexpected charges",
		"Use infrastructure as code for consistent, reviewable deployments")

	return recs
}

func formatRange(min, max float64) string {
	return fmt.Sprintf("$%.0f - $%.0f", min, max)
}
