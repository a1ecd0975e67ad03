package database

import (
	"context"
	"fmt"
	"time"

	"impulsa-web/internal/domain/classes"
	"impulsa-web/internal/domain/clients"
	"impulsa-web/internal/domain/plans"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SeedResult struct {
	Plans   int `json:"plans"`
	Classes int `json:"classes"`
	Clients int `json:"clients"`
}

// Seed inserts demo plans with their classes, and demo clients. Each table
// is only seeded while empty, so running it twice is harmless.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) (SeedResult, error) {
	var res SeedResult
	db = db.WithContext(ctx)

	err := db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&plans.Plan{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			for _, p := range demoPlans() {
				if err := tx.Create(&p).Error; err != nil {
					return fmt.Errorf("plan %s: %w", p.Name, err)
				}
				res.Plans++

				for _, c := range demoClasses(p, now) {
					if err := tx.Create(&c).Error; err != nil {
						return fmt.Errorf("class %s: %w", c.ClassName, err)
					}
					res.Classes++
				}
			}
		}

		if err := tx.Model(&clients.Client{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			list := demoClients()
			if err := tx.Create(&list).Error; err != nil {
				return fmt.Errorf("clients: %w", err)
			}
			res.Clients = len(list)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed: %w", err)
	}
	return res, nil
}

func demoPlans() []plans.Plan {
	meet := "https://meet.google.com/imp-ulsa-web"
	return []plans.Plan{
		{
			Name:          "Fundamentos de Marketing Digital",
			Description:   "Las bases para vender en línea: **embudo**, contenido y métricas.",
			Price:         290000,
			DurationWeeks: 4,
			IsActive:      true,
			Features:      datatypes.JSONSlice[string]{"8 clases en vivo", "Plantillas descargables", "Certificado"},
			Objectives:    datatypes.JSONSlice[string]{"Definir tu cliente ideal", "Medir lo que importa"},
			Guidelines:    datatypes.JSONSlice[string]{"Cámara encendida", "Entregas semanales"},
			MeetLink:      &meet,
		},
		{
			Name:          "Publicidad en Redes Sociales",
			Description:   "Campañas pagas en Meta y TikTok, desde la segmentación hasta el reporte.",
			Price:         450000,
			DurationWeeks: 6,
			IsActive:      true,
			Features:      datatypes.JSONSlice[string]{"12 clases en vivo", "Auditoría de tu cuenta", "Grupo de soporte"},
			Objectives:    datatypes.JSONSlice[string]{"Lanzar una campaña rentable"},
			Guidelines:    datatypes.JSONSlice[string]{"Cuenta publicitaria activa"},
		},
		{
			Name:          "SEO y Contenido",
			Description:   "Posiciona tu sitio con contenido que responde lo que buscan tus clientes.",
			Price:         380000,
			DurationWeeks: 5,
			IsActive:      true,
			Features:      datatypes.JSONSlice[string]{"10 clases en vivo", "Revisión de tu sitio"},
		},
	}
}

// demoClasses schedules one class a week for the first weeks of p, at
// 19:00 Bogotá time.
func demoClasses(p plans.Plan, now time.Time) []classes.Class {
	bogota := time.FixedZone("COT", -5*60*60)
	start := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, bogota).AddDate(0, 0, 7)

	weeks := p.DurationWeeks
	if weeks > 3 {
		weeks = 3
	}
	out := make([]classes.Class, 0, weeks)
	for i := 0; i < weeks; i++ {
		out = append(out, classes.Class{
			PlanID:      p.ID,
			ClassName:   fmt.Sprintf("%s: sesión %d", p.Name, i+1),
			ClassDate:   start.AddDate(0, 0, 7*i),
			TeacherName: "Laura Gómez",
			MeetLink:    "https://meet.google.com/imp-clase-" + fmt.Sprint(i+1),
		})
	}
	return out
}

func demoClients() []clients.Client {
	return []clients.Client{
		{
			CompanyName:           "Café Andino",
			Industry:              "Alimentos",
			ServiceType:           "Redes sociales",
			ProjectDescription:    "Estrategia de contenido y pauta local para tres tiendas.",
			InitialMetrics:        datatypes.JSON(`{"seguidores": 1200, "ventas_mensuales": 8500000, "canal": "Instagram"}`),
			FinalMetrics:          datatypes.JSON(`{"seguidores": 9800, "ventas_mensuales": 14200000, "canal": "Instagram y TikTok"}`),
			ImprovementPercentage: 67,
			ProjectDurationMonths: 6,
			Testimonial:           "Duplicamos las visitas a la tienda en medio año.",
			Featured:              true,
		},
		{
			CompanyName:           "Clínica Sonríe",
			Industry:              "Salud",
			ServiceType:           "SEO",
			ProjectDescription:    "Reescritura del sitio y campañas de búsqueda.",
			InitialMetrics:        datatypes.JSON(`{"visitas_organicas": 900, "citas": 40}`),
			FinalMetrics:          datatypes.JSON(`{"visitas_organicas": 4100, "citas": 95}`),
			ImprovementPercentage: 137.5,
			ProjectDurationMonths: 8,
			Testimonial:           "La agenda se llena sola.",
			Featured:              true,
		},
		{
			CompanyName:           "Moda Urbana",
			Industry:              "Retail",
			ServiceType:           "Publicidad pagada",
			ProjectDescription:    "Catálogo dinámico y remarketing.",
			InitialMetrics:        datatypes.JSON(`{"roas": 1.8, "conversion": 0.9}`),
			FinalMetrics:          datatypes.JSON(`{"roas": 4.2, "conversion": 2.3}`),
			ImprovementPercentage: 133,
			ProjectDurationMonths: 4,
		},
	}
}
