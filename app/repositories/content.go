package repositories

import (
	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

// Banners is the promotional banners collection.
type Banners struct {
	Resource
}

func NewBanners(db store.Database) *Banners {
	return &Banners{Resource: newResource(db, models.Banners)}
}

// Recommendations is the read-only recommendations collection.
type Recommendations struct {
	Resource
}

func NewRecommendations(db store.Database) *Recommendations {
	return &Recommendations{Resource: newResource(db, models.Recommendations)}
}
