package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Apri1221/localpulse-api/models"
)

var financialCategories = []string{models.CategoryBank, models.CategoryATM}

// Store runs all poi_density queries. Connections are pooled and checked out
// per query by the underlying driver; there is no shared handle to guard.
type Store struct {
	db *gorm.DB
}

func NewStore(path string) (*Store, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

type HealthCounts struct {
	POITotal     int64 `json:"poi_total"`
	POIFinancial int64 `json:"poi_financial"`
	POIDensity   int64 `json:"poi_density"`
}

func (s *Store) HealthCounts(ctx context.Context) (HealthCounts, error) {
	var counts HealthCounts

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.POI{}).Count(&counts.POITotal).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.POI{}).
			Where("category IN ?", financialCategories).
			Count(&counts.POIFinancial).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.POI{}).
			Where("category NOT IN ?", financialCategories).
			Count(&counts.POIDensity).Error
	})
	if err := g.Wait(); err != nil {
		return HealthCounts{}, fmt.Errorf("failed to count poi rows: %w", err)
	}

	return counts, nil
}

func (s *Store) BasicStats(ctx context.Context, location string) (models.BasicStats, error) {
	var stats models.BasicStats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.POI{}).
			Where("category = ? AND province = ?", models.CategoryBank, location).
			Count(&stats.TotalBanks).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.POI{}).
			Where("category = ? AND province = ?", models.CategoryATM, location).
			Count(&stats.TotalATMs).Error
	})
	g.Go(func() error {
		return s.db.WithContext(ctx).Model(&models.POI{}).
			Where("category NOT IN ? AND province = ?", financialCategories, location).
			Count(&stats.TotalPOI).Error
	})
	if err := g.Wait(); err != nil {
		return models.BasicStats{}, fmt.Errorf("failed to compute basic stats: %w", err)
	}

	return stats, nil
}

type districtAnalysisRow struct {
	District       string   `gorm:"column:district"`
	Banks          int64    `gorm:"column:banks"`
	ATMs           int64    `gorm:"column:atms"`
	TotalFinancial int64    `gorm:"column:total_financial"`
	AvgPOIDensity  *float64 `gorm:"column:avg_poi_density"`
}

// DistrictAnalysis joins per-district financial counts against per-district
// average activity density and classifies every district.
func (s *Store) DistrictAnalysis(ctx context.Context, location string) ([]models.DistrictInsight, error) {
	var rows []districtAnalysisRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT d.district,
		       d.banks,
		       d.atms,
		       d.total_financial,
		       p.avg_poi_density
		FROM (
			SELECT district,
			       SUM(CASE WHEN category = ? THEN 1 ELSE 0 END) AS banks,
			       SUM(CASE WHEN category = ? THEN 1 ELSE 0 END) AS atms,
			       COUNT(*) AS total_financial
			FROM poi_density
			WHERE category IN ? AND province = ?
			GROUP BY district
		) d
		LEFT JOIN (
			SELECT district,
			       AVG(intensity) AS avg_poi_density
			FROM poi_density
			WHERE category NOT IN ? AND province = ?
			GROUP BY district
		) p ON d.district = p.district`,
		models.CategoryBank, models.CategoryATM,
		financialCategories, location,
		financialCategories, location,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to run district analysis: %w", err)
	}

	insights := make([]models.DistrictInsight, len(rows))
	for i, row := range rows {
		insights[i] = models.DistrictInsight{
			District:       row.District,
			Banks:          row.Banks,
			ATMs:           row.ATMs,
			TotalFinancial: row.TotalFinancial,
			AvgPOIDensity:  row.AvgPOIDensity,
		}
		classifyInsight(&insights[i])
	}
	sortInsights(insights)

	return insights, nil
}

type businessOpportunityRow struct {
	District            string  `gorm:"column:district"`
	AvgActivityDensity  float64 `gorm:"column:avg_activity_density"`
	TotalActivityPoints int64   `gorm:"column:total_activity_points"`
	HighActivitySpots   int64   `gorm:"column:high_activity_spots"`
	OpportunityScore    float64 `gorm:"column:business_opportunity_score"`
}

// BusinessOpportunities ranks districts whose average activity density
// clears 0.5 by density times volume, capped at ten rows.
func (s *Store) BusinessOpportunities(ctx context.Context, location string) ([]models.BusinessOpportunity, error) {
	var rows []businessOpportunityRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT district,
		       AVG(intensity) AS avg_activity_density,
		       COUNT(*) AS total_activity_points,
		       SUM(CASE WHEN intensity > 0.7 THEN 1 ELSE 0 END) AS high_activity_spots,
		       ROUND(AVG(intensity) * COUNT(*), 2) AS business_opportunity_score
		FROM poi_density
		WHERE category NOT IN ? AND province = ?
		GROUP BY district
		HAVING AVG(intensity) > 0.5
		ORDER BY business_opportunity_score DESC
		LIMIT 10`,
		financialCategories, location,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank business opportunities: %w", err)
	}

	opportunities := make([]models.BusinessOpportunity, len(rows))
	for i, row := range rows {
		opportunities[i] = models.BusinessOpportunity{
			District:            row.District,
			AvgActivityDensity:  row.AvgActivityDensity,
			TotalActivityPoints: row.TotalActivityPoints,
			HighActivitySpots:   row.HighActivitySpots,
			OpportunityScore:    row.OpportunityScore,
		}
	}

	return opportunities, nil
}

type FinancialFilter struct {
	Province string
	District string
	Type     string
}

// canonicalCategory resolves the case-insensitive type query parameter to a
// stored category name, or "" when the value is unrecognized.
func canonicalCategory(t string) string {
	switch strings.ToUpper(t) {
	case "BANK":
		return models.CategoryBank
	case "ATM":
		return models.CategoryATM
	}
	return ""
}

func (s *Store) FinancialInstitutions(ctx context.Context, filter FinancialFilter) ([]models.POI, error) {
	query := s.db.WithContext(ctx).
		Where("category IN ?", financialCategories).
		Where("province = ?", filter.Province)

	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if category := canonicalCategory(filter.Type); category != "" {
		query = query.Where("category = ?", category)
	}

	var pois []models.POI
	if err := query.Order("category, name").Find(&pois).Error; err != nil {
		return nil, fmt.Errorf("failed to query financial institutions: %w", err)
	}

	return pois, nil
}

type POIFilter struct {
	Province     string
	District     string
	Category     string
	MinIntensity float64
	MaxIntensity float64
}

func (s *Store) POIRecords(ctx context.Context, filter POIFilter) ([]models.POI, error) {
	query := s.db.WithContext(ctx).
		Where("category NOT IN ?", financialCategories).
		Where("province = ? AND intensity >= ? AND intensity <= ?",
			filter.Province, filter.MinIntensity, filter.MaxIntensity)

	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var pois []models.POI
	if err := query.Order("intensity DESC, category").Find(&pois).Error; err != nil {
		return nil, fmt.Errorf("failed to query poi records: %w", err)
	}

	return pois, nil
}

func (s *Store) DistrictCategoryRollups(ctx context.Context, province string) ([]models.DistrictCategoryRollup, error) {
	var rollups []models.DistrictCategoryRollup
	err := s.db.WithContext(ctx).Raw(`
		SELECT district,
		       category,
		       COUNT(*) AS count,
		       AVG(intensity) AS avg_intensity
		FROM poi_density
		WHERE category NOT IN ? AND province = ?
		GROUP BY district, category
		ORDER BY avg_intensity DESC`,
		financialCategories, province,
	).Scan(&rollups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to roll up districts by category: %w", err)
	}

	for i := range rollups {
		rollups[i].AvgIntensity = round3(rollups[i].AvgIntensity)
	}

	return rollups, nil
}

func (s *Store) DistrictSummaries(ctx context.Context, province string) ([]models.DistrictSummary, error) {
	var summaries []models.DistrictSummary
	err := s.db.WithContext(ctx).Raw(`
		SELECT district,
		       COUNT(*) AS count,
		       AVG(intensity) AS avg_intensity,
		       COUNT(DISTINCT category) AS categories
		FROM poi_density
		WHERE category NOT IN ? AND province = ?
		GROUP BY district
		ORDER BY avg_intensity DESC`,
		financialCategories, province,
	).Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize districts: %w", err)
	}

	for i := range summaries {
		summaries[i].AvgIntensity = round3(summaries[i].AvgIntensity)
	}

	return summaries, nil
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).Model(&models.POI{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

func (s *Store) Districts(ctx context.Context) ([]string, error) {
	var districts []string
	err := s.db.WithContext(ctx).Model(&models.POI{}).
		Distinct("district").
		Order("district").
		Pluck("district", &districts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}

	return districts, nil
}

func (s *Store) BankCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).Model(&models.POI{}).
		Where("bank_category IS NOT NULL").
		Distinct("bank_category").
		Order("bank_category").
		Pluck("bank_category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bank categories: %w", err)
	}

	return categories, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
