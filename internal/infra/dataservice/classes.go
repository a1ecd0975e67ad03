package dataservice

import (
	"context"

	"impulsa-web/internal/domain/classes"
)

func (s *Service) ClassesForPlan(ctx context.Context, planID string) ([]classes.Class, error) {
	var list []classes.Class
	err := planClassesQuery(s.db.WithContext(ctx), planID).Find(&list).Error
	if err = translate("classes", "list", err); err != nil {
		return nil, err
	}
	return list, nil
}
