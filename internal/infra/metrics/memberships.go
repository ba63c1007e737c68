package metrics

import (
	"github.com/ledvelvet/doorcheck/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		membershipsExpiredTotal,
		membershipsTotal,
	)
}

var (
	membershipsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "doorcheck_memberships_expired_total",
			Help: "Total number of memberships flipped to expired by the expiry worker.",
		},
	)

	membershipsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "doorcheck_memberships_total",
			Help: "Current number of memberships by status.",
		},
		[]string{"status"}, // 'pending', 'active', 'expired'
	)
)

func IncMembershipsExpired(count int) {
	membershipsExpiredTotal.Add(float64(count))
}

func SetMembershipsTotal(counts map[model.MembershipStatus]int) {
	statuses := []model.MembershipStatus{
		model.MembershipStatusPending,
		model.MembershipStatusActive,
		model.MembershipStatusExpired,
	}
	for _, status := range statuses {
		if count, ok := counts[status]; ok {
			membershipsTotal.WithLabelValues(string(status)).Set(float64(count))
		}
	}
}
