package dataservice

import (
	"context"

	"impulsa-web/internal/domain/purchases"
)

func (s *Service) PurchasesForUser(ctx context.Context, userID string) ([]purchases.Purchase, error) {
	var list []purchases.Purchase
	err := userPurchasesQuery(s.db.WithContext(ctx), userID).Find(&list).Error
	if err = translate("purchases", "list", err); err != nil {
		return nil, err
	}
	return list, nil
}

// InsertPurchase stores p and returns the created row. A second purchase
// of the same plan by the same user fails with ErrDuplicate.
func (s *Service) InsertPurchase(ctx context.Context, p purchases.Purchase) (purchases.Purchase, error) {
	p.ID = ""
	err := s.db.WithContext(ctx).Create(&p).Error
	if err = translate("purchases", "insert", err); err != nil {
		return purchases.Purchase{}, err
	}
	return p, nil
}
