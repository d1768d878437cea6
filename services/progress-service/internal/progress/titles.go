package progress

import (
	"context"

	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

type TitleBackfill func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

// KnownTitles - первый проход: названия, пришедшие вместе с зачислениями.
func KnownTitles(mcEnrollments []domain.MicrocredentialEnrollment) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string)
	for _, mce := range mcEnrollments {
		if mc := mce.Microcredential; mc != nil && mc.Title != "" {
			out[mc.ID] = mc.Title
		}
	}
	return out
}

// ResolveTitles - второй проход: один пакетный запрос только для ненайденных id.
func ResolveTitles(ctx context.Context, known map[uuid.UUID]string, wanted []uuid.UUID, backfill TitleBackfill) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(wanted))
	var missing []uuid.UUID
	seen := make(map[uuid.UUID]struct{})

	for _, id := range wanted {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if title, ok := known[id]; ok {
			out[id] = title
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 || backfill == nil {
		return out, nil
	}

	fetched, err := backfill(ctx, missing)
	if err != nil {
		return out, err
	}
	for _, id := range missing {
		if title, ok := fetched[id]; ok {
			out[id] = title
		}
	}
	return out, nil
}
