package dataservice

import (
	"context"

	"impulsa-web/internal/domain/clients"
)

// ClientsByImprovement returns every client, biggest improvement first.
func (s *Service) ClientsByImprovement(ctx context.Context) ([]clients.Client, error) {
	var list []clients.Client
	err := clientsByImprovementQuery(s.db.WithContext(ctx)).Find(&list).Error
	if err = translate("clients", "list", err); err != nil {
		return nil, err
	}
	return list, nil
}
