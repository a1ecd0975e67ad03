package courses

import (
	"impulsa-web/internal/domain/plans"
)

type PlanDTO struct {
	plans.Plan
	PriceLabel string `json:"price_label"`
	Purchased  bool   `json:"purchased"`
}

func toPlanDTO(p plans.Plan, purchased bool) PlanDTO {
	return PlanDTO{Plan: p, PriceLabel: plans.FormatPrice(p.Price), Purchased: purchased}
}
