package exports

import (
	"context"
	"fmt"

	"github.com/boshmah/HealthCommandCenter/internal/blob"
	"github.com/boshmah/HealthCommandCenter/internal/foods"
)

// Service renders day exports and, when a blob store is configured, uploads
// them and hands back a presigned link instead of raw bytes.
type Service struct {
	foods      *foods.Service
	store      blob.Store
	generator  *Generator
	presignTTL int
}

func NewService(foodsService *foods.Service, store blob.Store, presignTTLSeconds int) *Service {
	return &Service{
		foods:      foodsService,
		store:      store,
		generator:  NewGenerator(),
		presignTTL: presignTTLSeconds,
	}
}

// Export builds the document for one user and date. Exactly one of the two
// return values is non-nil: an inline Document, or an UploadResponse when
// the document went to the blob store.
func (s *Service) Export(ctx context.Context, userID, date, format string) (*Document, *UploadResponse, error) {
	list, err := s.foods.List(ctx, userID, date)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.generator.Generate(format, list)
	if err != nil {
		return nil, nil, err
	}

	contentType := "application/pdf"
	if format == FormatCSV {
		contentType = "text/csv"
	}
	filename := fmt.Sprintf("foods-%s.%s", list.Date, format)

	if s.store != nil {
		key := fmt.Sprintf("exports/%s/%s", userID, filename)
		if _, err := s.store.PutObject(ctx, key, data, contentType); err != nil {
			return nil, nil, fmt.Errorf("upload export: %w", err)
		}

		url, err := s.store.PresignGet(ctx, key, s.presignTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("presign export: %w", err)
		}

		return nil, &UploadResponse{URL: url, ExpiresIn: s.presignTTL}, nil
	}

	return &Document{
		Data:        data,
		ContentType: contentType,
		Filename:    filename,
	}, nil, nil
}
