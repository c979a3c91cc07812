package repository

import (
	"context"
	"fmt"
	"time"

	"search-enrichment-service/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSearchRepository flattens enriched searches into the analytics tables
type GormSearchRepository struct {
	db *gorm.DB
}

// NewGormSearchRepository creates a new GORM search repository
func NewGormSearchRepository(db *gorm.DB) *GormSearchRepository {
	return &GormSearchRepository{
		db: db,
	}
}

// DbSearches GORM model for the search table
type DbSearches struct {
	SearchID        string `gorm:"column:search_id;primaryKey"`
	SearchCountry   string `gorm:"column:search_country"`
	SearchDate      string `gorm:"column:search_date;index"`
	RequestDepDate  string `gorm:"column:request_dep_date"`
	AdvancePurchase int    `gorm:"column:advance_purchase"`
	StayDuration    int    `gorm:"column:stay_duration"`
	TripType        string `gorm:"column:trip_type"`
	OnD             string `gorm:"column:ond;index"`
	CreatedAt       time.Time
}

// TableName overrides the default table name
func (DbSearches) TableName() string {
	return "db_searches"
}

// DbRecos GORM model for the recommendation table
type DbRecos struct {
	ID                   uint    `gorm:"primaryKey"`
	SearchID             string  `gorm:"column:search_id;index"`
	NbOfFlights          int     `gorm:"column:nb_of_flights"`
	PriceEUR             float64 `gorm:"column:price_eur"`
	MainMarketingAirline string  `gorm:"column:main_marketing_airline;index"`
	MainOperatingAirline string  `gorm:"column:main_operating_airline"`
	CreatedAt            time.Time
}

// TableName overrides the default table name
func (DbRecos) TableName() string {
	return "db_recos"
}

// Migrate creates or updates the tables
func (r *GormSearchRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&DbSearches{}, &DbRecos{})
}

// Name identifies the sink
func (r *GormSearchRepository) Name() string {
	return "postgres"
}

// Save writes the search row and replaces its recommendation rows in one transaction
func (r *GormSearchRepository) Save(ctx context.Context, search *entity.Search) error {
	searchRow, recoRows := flattenSearch(search)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "search_id"}},
			UpdateAll: true,
		}).Create(&searchRow)
		if result.Error != nil {
			return result.Error
		}

		if err := tx.Where("search_id = ?", search.SearchID).Delete(&DbRecos{}).Error; err != nil {
			return err
		}
		if len(recoRows) == 0 {
			return nil
		}
		return tx.Create(&recoRows).Error
	})
	if err != nil {
		return fmt.Errorf("write search %s: %w", search.SearchID, err)
	}
	return nil
}

// flattenSearch converts the aggregate into one search row and one row per recommendation
func flattenSearch(search *entity.Search) (DbSearches, []DbRecos) {
	searchRow := DbSearches{
		SearchID:        search.SearchID,
		SearchCountry:   search.SearchCountry,
		SearchDate:      search.SearchDate,
		RequestDepDate:  search.RequestDepDate,
		AdvancePurchase: search.AdvancePurchase,
		StayDuration:    search.StayDuration,
		TripType:        string(search.TripType),
		OnD:             search.OnD,
	}

	recoRows := make([]DbRecos, 0, len(search.Recos))
	for _, reco := range search.Recos {
		recoRows = append(recoRows, DbRecos{
			SearchID:             search.SearchID,
			NbOfFlights:          reco.NbOfFlights,
			PriceEUR:             reco.PriceEUR,
			MainMarketingAirline: reco.MainMarketingAirline,
			MainOperatingAirline: reco.MainOperatingAirline,
		})
	}

	return searchRow, recoRows
}
