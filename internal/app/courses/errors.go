package courses

import (
	"errors"

	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/metrics"
)

func isDuplicate(err error) bool {
	return errors.Is(err, dataservice.ErrDuplicate)
}

func recordPurchase(result string) {
	metrics.PurchasesTotal.WithLabelValues(result).Inc()
}
