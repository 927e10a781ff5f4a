package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	ResultMissingParams = "missing_params"
	ResultInvalidToken  = "invalid_token"
	ResultRecorded      = "recorded"
	ResultUnmatched     = "unmatched"
	ResultError         = "error"
	ResultOK            = "ok"
)

var (
	ClickRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "click_requests_total",
		Help: "Click requests by outcome.",
	}, []string{"result"})
	StatusChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "status_checks_total",
		Help: "Status checks by outcome.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(ClickRequests, StatusChecks)
}

// Handler serves the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
