package domain

import "time"

// Ordinal classification of SLA-breach likelihood.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Result of evaluating one parcel against its SLA deadline.
// Derived data only; it is never persisted by the engine.
type RiskAssessment struct {
	IsValid               bool      `json:"is_valid"`
	RiskLevel             RiskLevel `json:"risk_level"`
	TimeToDeadline        int       `json:"time_to_deadline"`
	EstimatedDeliveryTime int       `json:"estimated_delivery_time"`
	SafetyMargin          int       `json:"safety_margin"`
	RiskFactors           []string  `json:"risk_factors"`
}

type ImpactLevel string

const (
	ImpactMinimal     ImpactLevel = "MINIMAL"
	ImpactModerate    ImpactLevel = "MODERATE"
	ImpactSignificant ImpactLevel = "SIGNIFICANT"
	ImpactSevere      ImpactLevel = "SEVERE"
)

// Marginal cost of adding one parcel's stops to an existing route.
type DeliveryTimeImpact struct {
	OriginalETA    time.Time    `json:"original_eta"`
	NewETA         time.Time    `json:"new_eta"`
	AdditionalTime int          `json:"additional_time"`
	RouteDeviation float64      `json:"route_deviation"`
	ImpactLevel    ImpactLevel  `json:"impact_level"`
	OptimizedRoute []RoutePoint `json:"optimized_route"`
}

// Alert raised by the at-risk scanner for one parcel.
type SLARiskAlert struct {
	ParcelID              string    `json:"parcel_id"`
	TrackingNumber        string    `json:"tracking_number"`
	RiskLevel             RiskLevel `json:"risk_level"`
	TimeToDeadline        int       `json:"time_to_deadline"`
	EstimatedDeliveryTime int       `json:"estimated_delivery_time"`
	RiskFactors           []string  `json:"risk_factors"`
	RecommendedActions    []string  `json:"recommended_actions"`
	DetectedAt            time.Time `json:"detected_at"`
}

// A parcel found past its deadline while still in flight.
type BreachEvent struct {
	ParcelID       string    `json:"parcel_id"`
	TrackingNumber string    `json:"tracking_number"`
	SLADeadline    time.Time `json:"sla_deadline"`
	MinutesOverdue int       `json:"minutes_overdue"`
	DetectedAt     time.Time `json:"detected_at"`
}

type RiskBreakdown struct {
	Low      int `json:"LOW"`
	Medium   int `json:"MEDIUM"`
	High     int `json:"HIGH"`
	Critical int `json:"CRITICAL"`
}

// Add increments the bucket for level.
func (b *RiskBreakdown) Add(level RiskLevel) {
	switch level {
	case RiskLow:
		b.Low++
	case RiskMedium:
		b.Medium++
	case RiskHigh:
		b.High++
	case RiskCritical:
		b.Critical++
	}
}

// Historical SLA compliance over a creation-date range.
type ComplianceReport struct {
	StartDate           time.Time     `json:"start_date"`
	EndDate             time.Time     `json:"end_date"`
	TotalParcels        int           `json:"total_parcels"`
	OnTimeDeliveries    int           `json:"on_time_deliveries"`
	LateDeliveries      int           `json:"late_deliveries"`
	ComplianceRate      float64       `json:"compliance_rate"`
	AverageDeliveryTime float64       `json:"average_delivery_time"`
	RiskBreakdown       RiskBreakdown `json:"risk_breakdown"`
}
