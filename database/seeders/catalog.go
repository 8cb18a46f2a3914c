package seeders

import (
	"context"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

func init() {
	Register("tests", seedTests)
	Register("banners", seedBanners)
	Register("recommendations", seedRecommendations)
}

func seedTests(ctx context.Context, db store.Database) error {
	return insertAll(ctx, db, models.Tests, []store.Document{
		{
			"name":        "Complete Blood Count",
			"image":       "https://i.ibb.co/cbc.png",
			"details":     "Measures red cells, white cells and platelets.",
			"price":       24.99,
			"date":        "2026-11-02",
			"slots":       int64(20),
			"bookings":    int64(0),
			"category":    "Hematology",
			"sampleType":  "Blood",
			"reportHours": int64(24),
		},
		{
			"name":        "Lipid Profile",
			"image":       "https://i.ibb.co/lipid.png",
			"details":     "Total cholesterol, HDL, LDL and triglycerides.",
			"price":       39.5,
			"date":        "2026-11-03",
			"slots":       int64(15),
			"bookings":    int64(0),
			"category":    "Biochemistry",
			"sampleType":  "Blood",
			"reportHours": int64(24),
		},
		{
			"name":        "Thyroid Panel",
			"image":       "https://i.ibb.co/thyroid.png",
			"details":     "TSH, free T3 and free T4.",
			"price":       45,
			"date":        "2026-11-04",
			"slots":       int64(10),
			"bookings":    int64(0),
			"category":    "Endocrinology",
			"sampleType":  "Blood",
			"reportHours": int64(48),
		},
		{
			"name":        "Urinalysis",
			"image":       "https://i.ibb.co/urine.png",
			"details":     "Physical, chemical and microscopic urine exam.",
			"price":       12,
			"date":        "2026-11-05",
			"slots":       int64(30),
			"bookings":    int64(0),
			"category":    "Pathology",
			"sampleType":  "Urine",
			"reportHours": int64(12),
		},
	})
}

func seedBanners(ctx context.Context, db store.Database) error {
	return insertAll(ctx, db, models.Banners, []store.Document{
		{
			"title":       "Winter Health Check",
			"description": "Full body checkup at a seasonal price.",
			"image":       "https://i.ibb.co/banner-winter.png",
			"couponCode":  "WINTER20",
			"couponRate":  int64(20),
			"isActive":    true,
		},
		{
			"title":       "Family Package",
			"description": "Book four tests, pay for three.",
			"image":       "https://i.ibb.co/banner-family.png",
			"couponCode":  "FAMILY",
			"couponRate":  int64(25),
			"isActive":    false,
		},
	})
}

func seedRecommendations(ctx context.Context, db store.Database) error {
	return insertAll(ctx, db, models.Recommendations, []store.Document{
		{"title": "Stay hydrated", "text": "Drink water before a blood draw unless told to fast."},
		{"title": "Fasting tests", "text": "Lipid profiles need 9 to 12 hours of fasting."},
		{"title": "Annual screening", "text": "Adults over 40 benefit from a yearly thyroid check."},
	})
}
