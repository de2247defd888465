package rulestore

import (
	"context"
	"fmt"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	"github.com/RakshakAI/ScamShield/pkg/infra/database/types"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PatternRuleRow is the pattern_rules table shape. Rows with active=false
// stay in the table for audit but never reach the matcher.
type PatternRuleRow struct {
	ID            string           `gorm:"primaryKey"`
	Phrase        string
	Regex         string
	Category      string           `gorm:"not null"`
	BaseRisk      int              `gorm:"default:0"`
	LanguageHints types.StringList `gorm:"type:text[]"`
	Description   string
	Active        bool             `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PatternRuleRow) TableName() string {
	return "pattern_rules"
}

func (row *PatternRuleRow) toDomain() rule.Rule {
	return rule.Rule{
		ID:            row.ID,
		Phrase:        row.Phrase,
		Regex:         row.Regex,
		Category:      row.Category,
		BaseRisk:      row.BaseRisk,
		LanguageHints: row.LanguageHints,
		Description:   row.Description,
	}
}

type BrandTargetRow struct {
	Name      string `gorm:"primaryKey"`
	Risk      int    `gorm:"default:0"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
}

func (BrandTargetRow) TableName() string {
	return "brand_targets"
}

func (row *BrandTargetRow) toDomain() rule.Brand {
	return rule.Brand{
		Name: row.Name,
		Risk: row.Risk,
	}
}

type postgresRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewPostgresRepository reads the catalog from pattern_rules and
// brand_targets. The read happens once at boot; edits to the tables take
// effect on the next restart.
func NewPostgresRepository(db *gorm.DB, logger *logrus.Logger) rule.Repository {
	return &postgresRepository{
		db:     db,
		logger: logger,
	}
}

func (r *postgresRepository) Load(ctx context.Context) (*rule.Catalog, error) {
	var ruleRows []PatternRuleRow
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&ruleRows).Error; err != nil {
		return nil, fmt.Errorf("load pattern rules: %w", err)
	}

	var brandRows []BrandTargetRow
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&brandRows).Error; err != nil {
		return nil, fmt.Errorf("load brand targets: %w", err)
	}

	catalog := &rule.Catalog{
		Rules:  make([]rule.Rule, 0, len(ruleRows)),
		Brands: make([]rule.Brand, 0, len(brandRows)),
	}
	for i := range ruleRows {
		catalog.Rules = append(catalog.Rules, ruleRows[i].toDomain())
	}
	for i := range brandRows {
		catalog.Brands = append(catalog.Brands, brandRows[i].toDomain())
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules catalog: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"rules":  len(catalog.Rules),
		"brands": len(catalog.Brands),
	}).Info("loaded pattern catalog from database")

	return catalog, nil
}
