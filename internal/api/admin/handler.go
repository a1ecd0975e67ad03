// Package admin exposes read-only reports for administrators.
package admin

import (
	"net/http"
	"time"

	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	IsVerified   bool      `json:"is_verified"`
	Courses      int       `json:"courses"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminPurchase struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	PlanName  string  `json:"plan_name"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers       int64          `json:"total_users"`
	TotalPurchases   int64          `json:"total_purchases"`
	TotalRevenue     float64        `json:"total_revenue"`
	RecentRevenue    float64        `json:"recent_revenue"`
	PurchasesPerPlan map[string]int `json:"purchases_per_plan"`
}

type Handler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, now: time.Now}
}

func (h *Handler) ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := h.db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	type count struct {
		UserID string
		N      int
	}
	var counts []count
	if err := h.db.WithContext(c.Request.Context()).
		Model(&purchases.Purchase{}).
		Select("user_id, COUNT(*) AS n").
		Where("status = ?", purchases.StatusCompleted).
		Group("user_id").
		Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}
	byUser := make(map[string]int, len(counts))
	for _, n := range counts {
		byUser[n.UserID] = n.N
	}

	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		out = append(out, AdminUser{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			IsVerified:   u.IsVerified,
			Courses:      byUser[u.ID],
			CreatedAt:    u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListAllPurchases(c *gin.Context) {
	var rows []struct {
		ID        string
		Email     string
		PlanName  string
		Price     float64
		Status    string
		CreatedAt time.Time
	}
	err := h.db.WithContext(c.Request.Context()).
		Table("purchases").
		Select("purchases.id, users.email, plans.name AS plan_name, plans.price, purchases.status, purchases.created_at").
		Joins("LEFT JOIN users ON users.id = purchases.user_id").
		Joins("LEFT JOIN plans ON plans.id = purchases.plan_id").
		Order("purchases.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	out := make([]AdminPurchase, 0, len(rows))
	for _, r := range rows {
		out = append(out, AdminPurchase{
			ID:        r.ID,
			Email:     r.Email,
			PlanName:  r.PlanName,
			Price:     r.Price,
			Status:    r.Status,
			CreatedAt: r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetAdminStats sums revenue from the list price of completed purchases.
func (h *Handler) GetAdminStats(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	var stats AdminStats

	db.Model(&users.User{}).Count(&stats.TotalUsers)
	db.Model(&purchases.Purchase{}).Where("status = ?", purchases.StatusCompleted).Count(&stats.TotalPurchases)

	revenue := func(since *time.Time) float64 {
		var total float64
		q := db.Table("purchases").
			Joins("JOIN plans ON plans.id = purchases.plan_id").
			Where("purchases.status = ?", purchases.StatusCompleted)
		if since != nil {
			q = q.Where("purchases.created_at >= ?", *since)
		}
		q.Select("COALESCE(SUM(plans.price), 0)").Scan(&total)
		return total
	}
	thirtyDaysAgo := h.now().AddDate(0, 0, -30)
	stats.TotalRevenue = revenue(nil)
	stats.RecentRevenue = revenue(&thirtyDaysAgo)

	var counts []struct {
		Name  string
		Count int
	}
	db.Model(&plans.Plan{}).
		Select("plans.name, COUNT(purchases.id) AS count").
		Joins("LEFT JOIN purchases ON purchases.plan_id = plans.id AND purchases.status = ?", purchases.StatusCompleted).
		Group("plans.name").
		Scan(&counts)

	stats.PurchasesPerPlan = map[string]int{}
	for _, pc := range counts {
		stats.PurchasesPerPlan[pc.Name] = pc.Count
	}

	c.JSON(http.StatusOK, stats)
}
