package services

import (
	"fmt"
	"route-consolidation-service/internal/domain"
	"strings"
	"time"
)

type ServiceLevel string

const (
	ServiceStandard ServiceLevel = "STANDARD"
	ServiceExpress  ServiceLevel = "EXPRESS"
	ServiceSameDay  ServiceLevel = "SAME_DAY"
)

// CalculateSLADeadline derives the delivery deadline from the pickup instant.
// Calendar arithmetic happens in the pickup's own location. An empty level
// means STANDARD.
func CalculateSLADeadline(pickup time.Time, level ServiceLevel) (time.Time, error) {
	loc := pickup.Location()
	y, m, d := pickup.Date()

	switch ServiceLevel(strings.ToUpper(string(level))) {
	case "", ServiceStandard:
		return time.Date(y, m, d+1, 18, 0, 0, 0, loc), nil
	case ServiceExpress:
		return pickup.Add(4 * time.Hour), nil
	case ServiceSameDay:
		return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc), nil
	default:
		return time.Time{}, &domain.ValidationError{
			Field: "service_level",
			Msg:   fmt.Sprintf("unknown service level %q", level),
		}
	}
}
