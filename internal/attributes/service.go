package attributes

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var Descriptor = resource.Descriptor{
	Name:          "Attribute",
	Table:         "attributes",
	SearchColumns: []string{"name"},
	SoftDelete:    true,
}

type CreateInput struct {
	Name   *string  `json:"name" validate:"required,notblank,max=255"`
	Values []string `json:"values" validate:"omitempty,dive,max=255"`
}

type UpdateInput struct {
	Name   *string   `json:"name" validate:"omitnil,notblank,max=255"`
	Values *[]string `json:"values" validate:"omitnil,dive,max=255"`
}

type Service = resource.Service[models.Attribute, CreateInput, UpdateInput]

func NewService(deps resource.Deps) (Service, error) {
	return resource.Build(deps, Descriptor, resource.Hooks[models.Attribute, CreateInput, UpdateInput]{
		Build: func(_ context.Context, _ *gorm.DB, in CreateInput) (*models.Attribute, error) {
			return &models.Attribute{
				Name:   strings.TrimSpace(*in.Name),
				Values: cleanValues(in.Values),
			}, nil
		},
		Apply: func(_ context.Context, _ *gorm.DB, a *models.Attribute, in UpdateInput) error {
			if in.Name != nil {
				a.Name = strings.TrimSpace(*in.Name)
			}
			if in.Values != nil {
				a.Values = cleanValues(*in.Values)
			}
			return nil
		},
	})
}

// cleanValues trims entries and drops blanks and duplicates.
func cleanValues(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
