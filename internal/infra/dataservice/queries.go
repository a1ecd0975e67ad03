package dataservice

import (
	"impulsa-web/internal/domain/classes"
	"impulsa-web/internal/domain/clients"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"

	"gorm.io/gorm"
)

func activePlansQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&plans.Plan{}).
		Where("is_active = ?", true).
		Order("price ASC").
		Order("name ASC")
}

func userPurchasesQuery(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&purchases.Purchase{}).
		Where("user_id = ?", userID).
		Order("created_at ASC")
}

func planClassesQuery(db *gorm.DB, planID string) *gorm.DB {
	return db.Model(&classes.Class{}).
		Where("plan_id = ?", planID).
		Order("class_date ASC")
}

func clientsByImprovementQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&clients.Client{}).
		Order("improvement_percentage DESC").
		Order("company_name ASC")
}
