package migrations

import (
	"github.com/RakshakAI/ScamShield/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250714_add_active_flags",
		Name: "Add active flags so rules can be retired without deleting history",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				ALTER TABLE pattern_rules
				ADD COLUMN IF NOT EXISTS active BOOLEAN NOT NULL DEFAULT TRUE;
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				ALTER TABLE brand_targets
				ADD COLUMN IF NOT EXISTS active BOOLEAN NOT NULL DEFAULT TRUE;
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_pattern_rules_active
				ON pattern_rules (active);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			if err := db.Exec(`ALTER TABLE pattern_rules DROP COLUMN IF EXISTS active;`).Error; err != nil {
				return err
			}
			return db.Exec(`ALTER TABLE brand_targets DROP COLUMN IF EXISTS active;`).Error
		},
	})
}
