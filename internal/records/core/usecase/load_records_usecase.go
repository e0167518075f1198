package usecase

import (
	"context"
	"fmt"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"

	"github.com/sirupsen/logrus"
)

type LoadRecordsConfig struct {
	// Mapping is used as-is when set; otherwise it is inferred from headers.
	Mapping        domain.ColumnMapping
	InferenceRules []domain.InferenceRule
	Normalize      NormalizeOptions
}

type LoadRecordsUseCase struct {
	source ports.SnapshotReaderPort
	cfg    LoadRecordsConfig
	log    logrus.FieldLogger
}

func NewLoadRecordsUseCase(source ports.SnapshotReaderPort, cfg LoadRecordsConfig, log logrus.FieldLogger) *LoadRecordsUseCase {
	if cfg.InferenceRules == nil {
		cfg.InferenceRules = domain.DefaultInferenceRules()
	}
	return &LoadRecordsUseCase{source: source, cfg: cfg, log: log}
}

// LoadRecords pulls the current snapshot and returns its normalized records.
func (uc *LoadRecordsUseCase) LoadRecords(ctx context.Context) ([]domain.MetricRecord, error) {
	snap, err := uc.source.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil || len(snap.Rows) == 0 {
		return nil, domain.ErrDataUnavailable
	}

	mapping, err := uc.resolveMapping(snap.Headers)
	if err != nil {
		return nil, err
	}

	res, err := Normalize(snap.Rows, mapping, uc.cfg.Normalize)
	if err != nil {
		return nil, err
	}

	if res.Dropped > 0 || res.Zeroed > 0 {
		uc.log.WithFields(logrus.Fields{
			"import_id": snap.ImportID,
			"rows":      len(snap.Rows),
			"dropped":   res.Dropped,
			"zeroed":    res.Zeroed,
		}).Warn("malformed rows in snapshot")
	}

	return res.Records, nil
}

func (uc *LoadRecordsUseCase) resolveMapping(headers []string) (domain.ColumnMapping, error) {
	mapping := uc.cfg.Mapping
	if mapping.IsEmpty() {
		mapping = domain.InferColumnMapping(headers, uc.cfg.InferenceRules)
	}
	if err := mapping.Validate(headers); err != nil {
		return nil, fmt.Errorf("%w (headers: %v)", err, headers)
	}
	return mapping, nil
}
