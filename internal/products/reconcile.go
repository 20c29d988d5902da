package products

import (
	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/db/models"
	pkgerrors "github.com/geosynthix/catalog-backend/pkg/errors"
)

const (
	minImages = 1
	maxImages = 5
)

// ImageInstruction is one ordered entry of the desired gallery. Exactly one
// of KeepURL or Upload is set: KeepURL references an existing image by its
// url, Upload carries a freshly uploaded replacement.
type ImageInstruction struct {
	KeepURL   string
	Upload    *UploadOutcome
	Alt       string
	IsPrimary bool
}

// reconciliationPlan is the pure output of reconcileImages: the rows to
// persist and the existing urls no longer referenced.
type reconciliationPlan struct {
	finalImages []models.ProductImage
	orphanURLs  []string
}

// reconcileImages builds the final ordered gallery from the existing rows and
// the ordered instructions. Matching is by url string equality; a keep
// instruction whose url is not in the existing set is dropped silently.
func reconcileImages(productID uuid.UUID, existing []models.ProductImage, instructions []ImageInstruction) (reconciliationPlan, error) {
	existingByURL := make(map[string]models.ProductImage, len(existing))
	for _, img := range existing {
		existingByURL[img.URL] = img
	}

	final := make([]models.ProductImage, 0, len(instructions))
	kept := make(map[string]struct{}, len(instructions))

	for _, inst := range instructions {
		switch {
		case inst.Upload != nil:
			final = append(final, models.ProductImage{
				ProductID: productID,
				URL:       inst.Upload.URL,
				Alt:       inst.Alt,
				IsPrimary: inst.IsPrimary,
				Position:  len(final),
			})
		case inst.KeepURL != "":
			prev, ok := existingByURL[inst.KeepURL]
			if !ok {
				continue
			}
			kept[inst.KeepURL] = struct{}{}
			alt := inst.Alt
			if alt == "" {
				alt = prev.Alt
			}
			final = append(final, models.ProductImage{
				ProductID: productID,
				URL:       inst.KeepURL,
				Alt:       alt,
				IsPrimary: inst.IsPrimary,
				Position:  len(final),
			})
		default:
			return reconciliationPlan{}, pkgerrors.New(pkgerrors.CodeValidation, "image entry needs either a url or a file")
		}
	}

	if len(final) < minImages || len(final) > maxImages {
		return reconciliationPlan{}, pkgerrors.New(pkgerrors.CodeValidation, "products require between 1 and 5 images")
	}

	primaries := 0
	for _, img := range final {
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		return reconciliationPlan{}, pkgerrors.New(pkgerrors.CodeValidation, "exactly one image must be primary")
	}

	orphans := make([]string, 0)
	for _, img := range existing {
		if _, ok := kept[img.URL]; !ok {
			orphans = append(orphans, img.URL)
		}
	}

	return reconciliationPlan{finalImages: final, orphanURLs: orphans}, nil
}
