package variants

import (
	"github.com/angelmondragon/storefront/pkg/db/models"
)

func fromModel(row *models.Variant) Variant {
	return Variant{
		ID:         row.ID.String(),
		ProductID:  row.ProductID.String(),
		Name:       row.Name,
		Attributes: row.Attributes.Clone(),
		Price:      row.Price,
		Stock:      row.Stock,
		Images:     append([]string(nil), row.Images...),
	}
}

func fromModels(rows []models.Variant) []Variant {
	out := make([]Variant, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out
}
