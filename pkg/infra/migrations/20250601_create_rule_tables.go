package migrations

import (
	"github.com/RakshakAI/ScamShield/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250601_create_rule_tables",
		Name: "Create pattern_rules and brand_targets tables",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS pattern_rules (
					id             TEXT PRIMARY KEY,
					phrase         TEXT,
					regex          TEXT,
					category       TEXT NOT NULL,
					base_risk      INT NOT NULL DEFAULT 0,
					language_hints TEXT[],
					description    TEXT,
					created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (phrase IS NOT NULL OR regex IS NOT NULL),
					CHECK (base_risk BETWEEN 0 AND 100)
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_pattern_rules_category
				ON pattern_rules (category);
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE TABLE IF NOT EXISTS brand_targets (
					name       TEXT PRIMARY KEY,
					risk       INT NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (risk BETWEEN 0 AND 100)
				);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP TABLE IF EXISTS pattern_rules;`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP TABLE IF EXISTS brand_targets;`).Error
		},
	})
}
