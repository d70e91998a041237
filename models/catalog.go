package models

// Category as served by the upstream catalog API.
type Category struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Slug            string  `json:"slug"`
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
	ImagePath       string  `json:"imagePath,omitempty"`
}

// ProductImage is one image reference attached to a product. Storage is
// either "external" (URL set) or "local" (LocalPath set).
type ProductImage struct {
	ID        string  `json:"id"`
	Storage   string  `json:"storage"`
	URL       *string `json:"url"`
	LocalPath *string `json:"localPath"`
	Alt       string  `json:"alt"`
	SortOrder int     `json:"sortOrder"`
	IsPrimary bool    `json:"isPrimary"`
}

type Product struct {
	ID              string         `json:"id"`
	Category        Category       `json:"category"`
	TitleRu         string         `json:"titleRu"`
	LatinName       string         `json:"latinName"`
	Description     string         `json:"description"`
	HeightCm        int            `json:"heightCm"`
	Slug            string         `json:"slug"`
	MetaTitle       *string        `json:"metaTitle"`
	MetaDescription *string        `json:"metaDescription"`
	CareMessage     string         `json:"careMessage,omitempty"`
	Images          []ProductImage `json:"images"`
}

// PrimaryImage returns the image flagged as primary, falling back to the
// first one. Second return is false for a product with no images.
func (p Product) PrimaryImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return ProductImage{}, false
}

type CategoryWithProducts struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Products []Product `json:"products"`
}
