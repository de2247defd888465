package telemetry

import (
	"github.com/RakshakAI/ScamShield/pkg/config"
	domain "github.com/RakshakAI/ScamShield/pkg/domain/telemetry"
	factory "github.com/RakshakAI/ScamShield/pkg/infra/telemetry"
)

type ExportersBuilder interface {
	Build(configs []config.ExporterConfig) ([]domain.Exporter, error)
}

type exportersBuilder struct {
	locator *factory.ExporterLocator
}

func NewTelemetryExportersBuilder(locator *factory.ExporterLocator) ExportersBuilder {
	return &exportersBuilder{
		locator: locator,
	}
}

// Build resolves every configured exporter at boot. A bad exporter config is
// fatal; a silently dropped audit trail is worse than a failed start.
func (b *exportersBuilder) Build(configs []config.ExporterConfig) ([]domain.Exporter, error) {
	var exporters []domain.Exporter
	for _, cfg := range configs {
		exporter, err := b.locator.GetExporter(cfg)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, exporter)
	}
	return exporters, nil
}
