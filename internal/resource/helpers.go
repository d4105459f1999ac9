package resource

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"gorm.io/gorm"
)

// RequireExisting fails validation for field when no active row of M has id.
func RequireExisting[M any](ctx context.Context, tx *gorm.DB, field string, id uint) error {
	var n int64
	if err := tx.WithContext(ctx).Model(new(M)).Where("id = ?", id).Count(&n).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check "+field)
	}
	if n == 0 {
		label := strings.ReplaceAll(field, "_", " ")
		return pkgerrors.Invalid(map[string]string{field: fmt.Sprintf("The selected %s is invalid.", label)})
	}
	return nil
}

// Set copies *src into *dst when src is present.
func Set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// SetPtr replaces dst with a copy of src when src is present.
func SetPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
