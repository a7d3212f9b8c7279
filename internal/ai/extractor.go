package ai

import (
	"context"

	"github.com/spigell/cv-parser/internal/cv"
)

// Extractor turns raw CV text into a draft record. The draft is untrusted and
// must go through cv.Normalizer before it is returned to a client.
type Extractor interface {
	Extract(ctx context.Context, cvText string) (*cv.EmployeeRecord, error)
}
