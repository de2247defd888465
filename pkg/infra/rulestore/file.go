package rulestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	"github.com/sirupsen/logrus"
)

type fileRepository struct {
	path   string
	logger *logrus.Logger
}

// NewFileRepository loads the pattern catalog from a JSON file shipped with
// the deployment. This is the default source; postgres is opt-in.
func NewFileRepository(path string, logger *logrus.Logger) rule.Repository {
	return &fileRepository{
		path:   path,
		logger: logger,
	}
}

func (r *fileRepository) Load(_ context.Context) (*rule.Catalog, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", r.path, err)
	}

	var catalog rule.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", r.path, err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules catalog: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"path":   r.path,
		"rules":  len(catalog.Rules),
		"brands": len(catalog.Brands),
	}).Info("loaded pattern catalog from file")

	return &catalog, nil
}
